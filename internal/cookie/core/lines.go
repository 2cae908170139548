package core

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// EncodeJar renders jar entries as "key\tvalue" lines sorted by key.
func EncodeJar(entries map[string]string) []byte {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b bytes.Buffer
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\t')
		b.WriteString(entries[k])
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// DecodeJar parses the output of EncodeJar. Blank lines are ignored.
func DecodeJar(data []byte) (map[string]string, error) {
	entries := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			continue
		}
		key, value, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("jar line %d: missing tab separator", line)
		}
		entries[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// SortedKeys returns the keys of entries in ascending order.
func SortedKeys(entries map[string]string) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
