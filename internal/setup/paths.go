// Package setup prepares an agent settings file for the current checkout:
// relative hook commands become absolute and the project root is exported.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	hookPrefix = "hooks/"
	rootEnvKey = "CLAUDE_PROJECT_ROOT"
)

// Result summarizes what RewritePaths changed
type Result struct {
	ProjectRoot    string
	Rewritten      int
	MadeExecutable int
	ChmodFailures  map[string]error
}

// RewritePaths updates the settings file at settingsPath in place. The
// project root is the parent of the directory holding the settings file and
// hook scripts live in its hooks/ sibling directory.
func RewritePaths(settingsPath string, log *logrus.Entry) (Result, error) {
	settingsPath, err := filepath.Abs(settingsPath)
	if err != nil {
		return Result{}, err
	}
	settingsDir := filepath.Dir(settingsPath)
	hooksDir := filepath.Join(settingsDir, "hooks")
	res := Result{
		ProjectRoot:   filepath.Dir(settingsDir),
		ChmodFailures: map[string]error{},
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return Result{}, fmt.Errorf("read settings: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return Result{}, fmt.Errorf("read settings: %s is not valid JSON", settingsPath)
	}

	doc := string(data)
	doc, err = sjson.Set(doc, "env."+escape(rootEnvKey), res.ProjectRoot)
	if err != nil {
		return Result{}, fmt.Errorf("set %s: %w", rootEnvKey, err)
	}

	scripts := map[string]struct{}{}
	var edits []edit
	gjson.Get(doc, "hooks").ForEach(func(hookType, matchers gjson.Result) bool {
		matchers.ForEach(func(mi, matcher gjson.Result) bool {
			matcher.Get("hooks").ForEach(func(hi, hook gjson.Result) bool {
				command := hook.Get("command").String()
				if !strings.HasPrefix(command, hookPrefix) {
					return true
				}
				script, args, _ := strings.Cut(command, " ")
				abs := filepath.Join(hooksDir, filepath.Base(script))
				scripts[abs] = struct{}{}
				if args != "" {
					abs += " " + args
				}
				path := fmt.Sprintf("hooks.%s.%d.hooks.%d.command", escape(hookType.String()), mi.Int(), hi.Int())
				edits = append(edits, edit{path: path, value: abs})
				return true
			})
			return true
		})
		return true
	})

	for _, e := range edits {
		doc, err = sjson.Set(doc, e.path, e.value)
		if err != nil {
			return Result{}, fmt.Errorf("rewrite %s: %w", e.path, err)
		}
		res.Rewritten++
	}

	for script := range scripts {
		if err := os.Chmod(script, 0755); err != nil {
			log.WithError(err).WithField("script", filepath.Base(script)).Warn("could not make hook executable")
			res.ChmodFailures[script] = err
			continue
		}
		res.MadeExecutable++
	}

	pretty := gjson.Get(doc, "@pretty").Raw
	if err := os.WriteFile(settingsPath, []byte(strings.TrimRight(pretty, "\n")+"\n"), 0644); err != nil {
		return Result{}, fmt.Errorf("write settings: %w", err)
	}

	log.WithFields(logrus.Fields{
		"project_root": res.ProjectRoot,
		"rewritten":    res.Rewritten,
		"executable":   res.MadeExecutable,
	}).Info("settings updated")
	return res, nil
}

type edit struct {
	path  string
	value string
}

// escape quotes characters gjson and sjson treat as path syntax
func escape(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
