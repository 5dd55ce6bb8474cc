// Package session drives one culling run: scan, show one image, route an
// action, move or navigate, repeat until the list is exhausted.
package session

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Akaiko1/rapid-culler/internal/scanner"
)

// RejectDirName is the subfolder created under the source root to receive
// rejected images.
const RejectDirName = "_REJECTS"

// ErrNoImages is returned by Start when the scan finds nothing to cull.
var ErrNoImages = errors.New("no image files found in source folder")

// State is the session lifecycle phase.
type State int

const (
	Idle State = iota
	Browsing
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Browsing:
		return "browsing"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Callbacks notify the hosting UI of session progress. Any callback may be
// nil.
type Callbacks struct {
	// OnShow fires whenever a new current record should be displayed.
	OnShow func(rec scanner.ImageRecord, index, total int)
	// OnFinished fires once when the last record has been sorted.
	OnFinished func()
	// OnMoveError fires when a keep/reject move fails; the record stays
	// current so the user can retry.
	OnMoveError func(rec scanner.ImageRecord, err error)
}

// Controller owns the session state. It is driven one event at a time from
// the UI event loop, so no synchronization is needed.
type Controller struct {
	scanner   scanner.ImageScanner
	callbacks Callbacks

	state     State
	records   []scanner.ImageRecord
	index     int
	keepDir   string
	rejectDir string
}

// NewController creates a Controller using the given scanner, defaulting to
// a FileScanner when nil.
func NewController(sc scanner.ImageScanner, callbacks Callbacks) *Controller {
	if sc == nil {
		sc = scanner.NewFileScanner()
	}
	return &Controller{scanner: sc, callbacks: callbacks}
}

// Start transitions Idle→Browsing: ensures the reject folder exists under
// srcDir, scans for images, and shows the first record. The session stays
// Idle when the scan errors or finds nothing.
func (c *Controller) Start(srcDir, keepDir string, recursive bool) error {
	if c.state == Browsing {
		return errors.New("a culling session is already in progress")
	}

	rejectDir := filepath.Join(srcDir, RejectDirName)
	if err := os.MkdirAll(rejectDir, 0o755); err != nil {
		return fmt.Errorf("failed to create reject folder %q: %w", rejectDir, err)
	}

	records, err := c.scanner.Scan(srcDir, recursive)
	if err != nil {
		return err
	}
	records = excludeRejects(records)
	if len(records) == 0 {
		return ErrNoImages
	}

	c.records = records
	c.index = 0
	c.keepDir = keepDir
	c.rejectDir = rejectDir
	c.state = Browsing
	c.show()
	return nil
}

// excludeRejects drops records that already live under the reject folder,
// which a recursive scan would otherwise pick back up.
func excludeRejects(records []scanner.ImageRecord) []scanner.ImageRecord {
	kept := records[:0]
	for _, rec := range records {
		if rec.RelativePath == RejectDirName ||
			strings.HasPrefix(rec.RelativePath, RejectDirName+string(filepath.Separator)) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// Keep moves the current image to the keep destination and advances.
func (c *Controller) Keep() {
	c.moveCurrent(c.keepDir)
}

// Reject moves the current image to the reject folder and advances.
func (c *Controller) Reject() {
	c.moveCurrent(c.rejectDir)
}

// Next shows the following image without touching the current file.
func (c *Controller) Next() {
	if c.state != Browsing || c.index >= len(c.records)-1 {
		return
	}
	c.index++
	c.show()
}

// Previous shows the preceding image without touching the current file.
func (c *Controller) Previous() {
	if c.state != Browsing || c.index <= 0 {
		return
	}
	c.index--
	c.show()
}

// Skip advances past the current image. Today it behaves exactly like Next;
// it stays a separate entry point so skipped records can be tracked later.
func (c *Controller) Skip() {
	c.Next()
}

// moveCurrent moves the current record's file under destRoot and advances
// on success. On failure the index is left alone so the record can be
// retried.
func (c *Controller) moveCurrent(destRoot string) {
	if c.state != Browsing || c.index >= len(c.records) {
		return
	}
	rec := c.records[c.index]

	if _, err := moveRecord(rec, destRoot); err != nil {
		log.Printf("Error moving %s: %v", rec.DisplayPath(), err)
		if c.callbacks.OnMoveError != nil {
			c.callbacks.OnMoveError(rec, err)
		}
		return
	}
	log.Printf("Moved %s to %s", rec.DisplayPath(), destRoot)

	c.index++
	if c.index == len(c.records) {
		c.state = Finished
		if c.callbacks.OnFinished != nil {
			c.callbacks.OnFinished()
		}
		return
	}
	c.show()
}

func (c *Controller) show() {
	if c.callbacks.OnShow != nil {
		c.callbacks.OnShow(c.records[c.index], c.index, len(c.records))
	}
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	return c.state
}

// Current returns the record at the current index while Browsing.
func (c *Controller) Current() (scanner.ImageRecord, bool) {
	if c.state != Browsing || c.index >= len(c.records) {
		return scanner.ImageRecord{}, false
	}
	return c.records[c.index], true
}

// Index returns the zero-based position of the current record.
func (c *Controller) Index() int {
	return c.index
}

// Count returns the number of records in the session.
func (c *Controller) Count() int {
	return len(c.records)
}

// RejectDir returns the resolved reject folder for the active session.
func (c *Controller) RejectDir() string {
	return c.rejectDir
}
