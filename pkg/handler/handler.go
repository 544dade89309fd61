package handler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	c "github.com/mproffitt/dembed/pkg/config"
	"github.com/mproffitt/dembed/pkg/notification"
	p "github.com/mproffitt/dembed/pkg/processing"
	log "github.com/sirupsen/logrus"
)

// ErrRunning is returned by Run when the watchdog is already running
var ErrRunning = errors.New("watchdog is already running")

// Watchdog Polls a single directory and renders a companion file for
// every matching file that appears after the first poll
type Watchdog struct {
	directory  string
	interval   time.Duration
	extensions map[string]struct{}
	processor  companion
	notifier   notification.Notifier

	known    knownFiles
	firstRun bool
	running  atomic.Bool
	sleep    func(time.Duration)
}

// New Create a watchdog for the given watch session
//
// Arguments:
//
// - watch    config.Watch          The directory, interval and template variables to use
// - config   *config.Config        Global settings. The template is loaded from config.TemplateDirectory
// - notifier notification.Notifier Receives a message for every generated file. May be nil
//
// Return:
//
// - *Watchdog A stopped watchdog with an empty set of known files
// - error     When the template cannot be loaded
func New(watch c.Watch, config *c.Config, notifier notification.Notifier) (*Watchdog, error) {
	tpl, err := p.LoadTemplate(config.TemplateDirectory, c.TemplateName)
	if err != nil {
		return nil, err
	}

	processor, err := p.NewProcessor(tpl, watch.Variables, config)
	if err != nil {
		return nil, err
	}

	return newWatchdog(watch, processor, notifier), nil
}

func newWatchdog(watch c.Watch, processor companion, notifier notification.Notifier) *Watchdog {
	if notifier == nil {
		notifier = notification.Discard{}
	}

	interval := watch.PollInterval
	if interval <= 0 {
		interval = c.DefaultPollInterval
	}

	extensions := watch.Extensions
	if len(extensions) == 0 {
		extensions = c.DefaultExtensions()
	}

	w := &Watchdog{
		directory:  watch.Directory,
		interval:   interval,
		extensions: make(map[string]struct{}, len(extensions)),
		processor:  processor,
		notifier:   notifier,
		known:      make(knownFiles),
		firstRun:   true,
		sleep:      time.Sleep,
	}
	for _, e := range extensions {
		w.extensions[e] = struct{}{}
	}
	return w
}

// suffix mirrors the final extension of name. A name made only of its
// extension, such as ".jpg", has none.
func suffix(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return ext
}

// ListMatchingFiles Lists the files directly inside the watched directory
// whose extension is one of the watched extensions
func (w *Watchdog) ListMatchingFiles() ([]string, error) {
	entries, err := os.ReadDir(w.directory)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", w.directory, err)
	}

	var files = make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := w.extensions[suffix(e.Name())]; ok {
			files = append(files, filepath.Join(w.directory, e.Name()))
		}
	}
	return files, nil
}

// RenderCompanion Renders the template for file into a sibling .html file
func (w *Watchdog) RenderCompanion(file string) error {
	dest, err := w.processor.Process(file)
	if err != nil {
		return err
	}
	log.Infof("Generated companion %s for %s", dest, file)
	w.notifier.Notify(fmt.Sprintf("Generated %s", filepath.Base(dest)))
	return nil
}

// PollOnce Compares the directory against the known files
//
// The first call only records what is already there. Afterwards, files
// which vanished are forgotten and files which appeared are recorded and
// have their companion rendered.
func (w *Watchdog) PollOnce() error {
	current, err := w.ListMatchingFiles()
	if err != nil {
		return err
	}

	seen := newKnownFiles(current)
	if w.firstRun {
		w.known = seen
		w.firstRun = false
		log.Infof("Found %d existing files in %s", len(seen), w.directory)
		return nil
	}

	for _, path := range w.known.symmetricDifference(seen) {
		if w.known.contains(path) {
			log.Debugf("File %s was removed", path)
			w.known.remove(path)
			continue
		}

		log.Debugf("File %s was added", path)
		w.known.add(path)
		if err := w.RenderCompanion(path); err != nil {
			return err
		}
	}
	return nil
}

// Run Polls the directory until Stop is called or a poll fails
//
// Stop is observed between iterations only, so a sleep in progress
// always completes first.
func (w *Watchdog) Run() error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer w.running.Store(false)

	log.Infof("Starting to watch %s every %s", w.directory, w.interval)
	for w.running.Load() {
		if err := w.PollOnce(); err != nil {
			return err
		}
		w.sleep(w.interval)
	}
	log.Infof("Stopped watching %s", w.directory)
	return nil
}

// Stop Ask the running loop to exit at its next iteration
func (w *Watchdog) Stop() {
	w.running.Store(false)
}

// Running Whether the poll loop is active
func (w *Watchdog) Running() bool {
	return w.running.Load()
}

// Known Returns the currently known files in sorted order
func (w *Watchdog) Known() []string {
	return w.known.sorted()
}
