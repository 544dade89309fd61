package mime

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"
)

// Detect Sniff the content type of the file at path
//
// Returns nil when the file cannot be read. Detection never fails a render,
// the caller only loses the type information.
func Detect(path string) *Details {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		log.Warnf("Unable to detect mime type for %s - %s", path, err.Error())
		return nil
	}

	var (
		full     string = mtype.String()
		base     string = strings.SplitN(full, ";", 2)[0]
		catagory string = strings.SplitN(base, "/", 2)[0]
	)
	details := &Details{
		Catagory:  catagory,
		Type:      base,
		Extension: mtype.Extension(),
	}
	if details.Extension == "" {
		details.Extension = filepath.Ext(path)
	}
	return details
}
