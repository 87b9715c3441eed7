package downloadcache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Diogo1457/happy-audio/internal/media"
)

// Entry is one cached download.
type Entry struct {
	Key  string     `json:"key"`
	ID   string     `json:"id"`
	Kind media.Kind `json:"kind"`
	File string     `json:"file"`
	Path string     `json:"path"`
}

// index is the ordered "<id>-<ext>" -> filename mapping, oldest first.
type index struct {
	entries []indexEntry
}

type indexEntry struct {
	key  string
	file string
}

// Key returns the index key for id and kind.
func Key(id string, kind media.Kind) string {
	return id + "-" + kind.Ext()
}

// FileName returns the cached filename for id and kind.
func FileName(id string, kind media.Kind) string {
	return id + "." + kind.Ext()
}

// parseKey splits "<id>-<ext>" at the last dash; ids may contain dashes.
func parseKey(key string) (string, media.Kind, bool) {
	pos := strings.LastIndex(key, "-")
	if pos <= 0 || pos == len(key)-1 {
		return "", media.KindAudio, false
	}
	kind, err := media.ParseKind(key[pos+1:])
	if err != nil {
		return "", media.KindAudio, false
	}
	return key[:pos], kind, true
}

func (ix *index) find(key string) int {
	for i, e := range ix.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

func (ix *index) get(key string) (string, bool) {
	if i := ix.find(key); i >= 0 {
		return ix.entries[i].file, true
	}
	return "", false
}

func (ix *index) remove(key string) bool {
	i := ix.find(key)
	if i < 0 {
		return false
	}
	ix.entries = append(ix.entries[:i], ix.entries[i+1:]...)
	return true
}

// put moves key to the newest position.
func (ix *index) put(key, file string) {
	ix.remove(key)
	ix.entries = append(ix.entries, indexEntry{key: key, file: file})
}

func (ix *index) popOldest() (indexEntry, bool) {
	if len(ix.entries) == 0 {
		return indexEntry{}, false
	}
	oldest := ix.entries[0]
	ix.entries = ix.entries[1:]
	return oldest, true
}

func (ix *index) len() int {
	return len(ix.entries)
}

// decodeIndex reads a JSON object while keeping key order, which
// map[string]string would lose.
func decodeIndex(r io.Reader) (*index, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err == io.EOF {
		return &index{}, nil
	}
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("index must be a JSON object, found %v", tok)
	}
	ix := &index{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected index key %v", keyTok)
		}
		var file string
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("index value for %q: %w", key, err)
		}
		ix.put(key, file)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after index object")
	}
	return ix, nil
}

func (ix *index) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range ix.entries {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		key, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		file, err := json.Marshal(e.file)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(file)
	}
	if len(ix.entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
