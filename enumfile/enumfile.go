// Package enumfile rewrites Java enum constants to carry their catalog key.
//
// Enum classes commonly bind display names in the constant list:
//
//	ONLINE("在线", 1),
//	OFFLINE("离线", 0);
//
// When the display name is a catalogued value, Patch inserts the property
// key as a second string argument:
//
//	ONLINE("在线", "status.online", 1),
//
// Constants whose second argument is already a string literal are treated
// as keyed and left alone, so patching is idempotent. PatchFile writes a
// numbered .backup copy before modifying the file.
package enumfile

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// Constant describes one enum constant the patcher looked at.
type Constant struct {
	// Name is the enum constant name.
	Name string
	// Value is the first string argument (the display name).
	Value string
	// Key is the catalog key inserted. Empty for Missing constants.
	Key string
}

// Result summarises a patch pass over one file.
type Result struct {
	// Patched lists the constants that received a key.
	Patched []Constant
	// Skipped counts constants whose second argument was already a string.
	Skipped int
	// Missing lists constants whose value has no catalog key.
	Missing []Constant
	// Backup is the backup copy path. Empty when nothing was written.
	Backup string
}

// KeyLookup resolves a catalogued value to its property key.
type KeyLookup interface {
	KeyFor(value string) (string, bool)
}

// ---------------------------------------------------------------------------
// Patching
// ---------------------------------------------------------------------------

// constantPattern matches NAME("value", ...) enum items. The argument tail
// runs to the first closing parenthesis, which covers the flat literal
// arguments enum constant lists use.
var constantPattern = regexp.MustCompile(`(\w+)\s*\(\s*"([^"]+)"[^)]*\)`)

// Patch inserts catalog keys into enum constants and returns the rewritten
// source. The result lists what was patched, skipped and not found; the
// returned source equals the input when Patched is empty.
func Patch(src string, keys KeyLookup) (string, *Result) {
	res := &Result{}

	var out strings.Builder
	last := 0

	for _, m := range constantPattern.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		value := src[m[4]:m[5]]

		// Enum constants start with an uppercase letter; method calls and
		// annotation arguments do not qualify.
		if !startsUpper(name) || precededByAt(src, m[0]) {
			continue
		}

		key, ok := keys.KeyFor(value)
		if !ok {
			res.Missing = append(res.Missing, Constant{Name: name, Value: value})
			continue
		}

		// m[5] is the closing quote of the first string argument.
		if hasStringSecondArg(src[m[5]+1 : m[1]]) {
			res.Skipped++
			continue
		}

		out.WriteString(src[last:m[5]])
		out.WriteString(`", "`)
		out.WriteString(key)
		last = m[5]

		res.Patched = append(res.Patched, Constant{Name: name, Value: value, Key: key})
	}

	if len(res.Patched) == 0 {
		return src, res
	}
	out.WriteString(src[last:])
	return out.String(), res
}

func startsUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// precededByAt reports whether the match is an annotation argument list,
// e.g. @SuppressWarnings("unchecked").
func precededByAt(src string, start int) bool {
	for i := start - 1; i >= 0; i-- {
		switch src[i] {
		case ' ', '\t':
			continue
		case '@':
			return true
		default:
			return false
		}
	}
	return false
}

// hasStringSecondArg reports whether the argument tail after the first
// string argument starts with another string literal.
func hasStringSecondArg(tail string) bool {
	tail = strings.TrimLeft(tail, " \t\r\n")
	if !strings.HasPrefix(tail, ",") {
		return false
	}
	tail = strings.TrimLeft(tail[1:], " \t\r\n")
	return strings.HasPrefix(tail, `"`)
}

// ---------------------------------------------------------------------------
// File operations
// ---------------------------------------------------------------------------

// Preview runs Patch against a file without writing anything.
func Preview(path string, keys KeyLookup) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, res := Patch(string(data), keys)
	return res, nil
}

// PatchFile rewrites an enum file in place. A numbered backup copy is
// created before the file is touched; when nothing needs patching the file
// is left alone and no backup is made.
func PatchFile(path string, keys KeyLookup) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	patched, res := Patch(string(data), keys)
	if len(res.Patched) == 0 {
		return res, nil
	}

	backup := backupPath(path)
	if err := os.WriteFile(backup, data, 0644); err != nil {
		return nil, fmt.Errorf("creating backup %s: %w", backup, err)
	}
	res.Backup = backup

	if err := os.WriteFile(path, []byte(patched), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	return res, nil
}

// backupPath returns path + ".backup", numbering the suffix when earlier
// backups exist: .backup, .backup.1, .backup.2, ...
func backupPath(path string) string {
	backup := path + ".backup"
	for counter := 1; ; counter++ {
		if _, err := os.Stat(backup); os.IsNotExist(err) {
			return backup
		}
		backup = fmt.Sprintf("%s.backup.%d", path, counter)
	}
}
