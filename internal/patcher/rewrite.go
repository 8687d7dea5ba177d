package patcher

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// lineRule replaces any line starting with prefix by replacement.
type lineRule struct {
	prefix      string
	replacement string
}

// rewriteLines applies line rules to a file: whole-file read, in-memory
// replace, whole-file rewrite only when something changed. A missing file is
// not an error. Each applied change is reported.
func rewriteLines(path string, rules []lineRule) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	lines := strings.Split(string(data), "\n")
	changed := false
	for i, line := range lines {
		for _, rule := range rules {
			if !strings.HasPrefix(line, rule.prefix) || line == rule.replacement {
				continue
			}
			lines[i] = rule.replacement
			changed = true
			logrus.Infof("Patched %s: %s", path, rule.replacement)
		}
	}
	if !changed {
		return nil
	}

	return writeBack(path, []byte(strings.Join(lines, "\n")))
}

// replacePlaceholders substitutes every occurrence of each placeholder with
// value, rewriting the file only when something changed.
func replacePlaceholders(path string, placeholders []string, value string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	patched := string(data)
	for _, ph := range placeholders {
		patched = strings.ReplaceAll(patched, ph, value)
	}
	if patched == string(data) {
		return nil
	}

	logrus.Infof("Patched %s: build-time paths -> %s", path, value)
	return writeBack(path, []byte(patched))
}

// writeBack rewrites a file in place preserving its permission bits.
func writeBack(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, info.Mode().Perm())
}
