package util

import (
	"encoding/json"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// EnsureDir creates the directory (and parents) if it does not exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return errors.Wrapf(os.MkdirAll(dir, 0o755), "creating %s", dir)
}

// WriteToFile writes the strings to the file separated by new lines, creating parent folders
func WriteToFile(savePath string, content ...string) error {
	if err := EnsureDir(path.Dir(savePath)); err != nil {
		return err
	}
	return os.WriteFile(savePath, []byte(strings.Join(content, "\n")+"\n"), 0o644)
}

// AppendToFile appends each string as a line
func AppendToFile(savePath string, content ...string) error {
	if err := EnsureDir(path.Dir(savePath)); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON marshals v with indentation into savePath
func WriteJSON(savePath string, v interface{}) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding json")
	}
	return WriteToFile(savePath, string(bs))
}
