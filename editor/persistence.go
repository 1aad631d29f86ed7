package editor

import (
	"fmt"

	"nodegraph/document"
	"nodegraph/graph"
	"nodegraph/logging"
)

// DumpDict serializes the whole document, starting from the root scene
// whatever scene is active.
func (e *Editor) DumpDict() graph.Document {
	return e.root.Dump()
}

// LoadDict replaces the document with doc. On error the current document
// is left as it was. On success the history is emptied and marked clean
// and the root scene becomes active.
func (e *Editor) LoadDict(doc graph.Document) error {
	e.tools.Cancel()
	if err := e.root.Load(doc, e.reg); err != nil {
		e.logger.Error("load failed", logging.Err(err))
		return err
	}
	e.afterReplace()
	e.logger.Info("document loaded",
		logging.Int("nodes", doc.CountNodes()),
		logging.Int("connections", doc.CountConnections()),
	)
	return nil
}

// Reset empties the document and forgets its file name.
func (e *Editor) Reset() {
	e.tools.Cancel()
	e.root.Clear()
	e.filename = ""
	e.afterReplace()
}

func (e *Editor) afterReplace() {
	e.stack = nil
	e.overlay.Clear()
	e.history.Clear()
}

// Open loads and validates the document at path. Nodes of unregistered
// types come in as generic nodes built from their records.
func (e *Editor) Open(path string) error {
	doc, err := document.Load(path)
	if err != nil {
		e.logger.Error("open failed", logging.Path(path), logging.Err(err))
		return err
	}
	if err := e.LoadDict(doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	e.filename = path
	return nil
}

// Save writes the document to path, or to the current file name when path
// is empty, and marks the history clean.
func (e *Editor) Save(path string) error {
	if path == "" {
		path = e.filename
	}
	if path == "" {
		return fmt.Errorf("no file name")
	}
	if err := document.Save(path, e.DumpDict(), e.indent); err != nil {
		e.logger.Error("save failed", logging.Path(path), logging.Err(err))
		return err
	}
	e.filename = path
	e.history.SetClean()
	e.logger.Info("document saved", logging.Path(path))
	return nil
}
