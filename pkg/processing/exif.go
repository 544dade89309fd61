package processing

import (
	exif "github.com/barasher/go-exiftool"
)

func exifData(path string) (fi exif.FileMetadata, err error) {
	et, err := exif.NewExiftool()
	if err != nil {
		return
	}
	defer et.Close()

	fi = et.ExtractMetadata(path)[0]
	err = fi.Err
	return
}

// imageSize reads the pixel dimensions of the image at path via exiftool
func imageSize(path string) (width, height int64, err error) {
	var fi exif.FileMetadata
	if fi, err = exifData(path); err != nil {
		return
	}
	return dimensions(fi)
}

func dimensions(fi exif.FileMetadata) (width, height int64, err error) {
	if width, err = fi.GetInt("ImageWidth"); err != nil {
		return
	}
	height, err = fi.GetInt("ImageHeight")
	return
}
