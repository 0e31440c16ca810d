package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"flowcraft/diagram"
	"flowcraft/editor"
)

// Output colours
var (
	okColor    = color.New(color.FgGreen, color.Bold)
	errColor   = color.New(color.FgRed, color.Bold)
	labelColor = color.New(color.FgCyan)
	dimColor   = color.New(color.Faint)
)

// isMsgpack picks the codec from the file extension; anything else is JSON.
func isMsgpack(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk", ".mp":
		return true
	}
	return false
}

// readDocument decodes a document without loading it into a diagram.
func readDocument(path string) (*diagram.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if isMsgpack(path) {
		return diagram.DecodeMsgpack(data)
	}
	return diagram.DecodeJSON(data)
}

// newSession creates an editing session configured from cfg.
func newSession() *editor.Session {
	return editor.New(cfg.SessionOptions(log)...)
}

// openSession loads a document into a new editing session configured from cfg.
func openSession(path string) (*editor.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s := newSession()
	if isMsgpack(path) {
		err = s.LoadMsgpack(data)
	} else {
		err = s.LoadJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// saveSession writes the diagram in the format implied by path.
func saveSession(s *editor.Session, path string) error {
	var (
		data []byte
		err  error
	)
	if isMsgpack(path) {
		data, err = s.SaveMsgpack()
	} else {
		data, err = s.SaveJSON()
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
