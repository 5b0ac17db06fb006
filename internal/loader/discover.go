package loader

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// skipFilenames are recognised-suffix files that are never model
// definitions — project/tooling config, not corpus content.
var skipFilenames = map[string]bool{
	"modelc.yaml":   true,
	"modelc.yml":    true,
	"config.yaml":   true,
	"config.yml":    true,
	"settings.yaml": true,
	"settings.yml":  true,
}

var partSuffix = regexp.MustCompile(`\.part\d+$`)

// discoveredFile is one candidate definition file, with the stem key
// its partial-merge group is identified by.
type discoveredFile struct {
	Path string
	Stem string // relative path with extension and .partN suffix stripped
}

// discoverFiles walks root for every *.yaml/*.yml file, skipping
// hidden files/directories and known non-model filenames (§4.2).
func discoverFiles(root string) ([]discoveredFile, error) {
	var files []discoveredFile

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if skipFilenames[strings.ToLower(name)] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		stem := partSuffix.ReplaceAllString(strings.TrimSuffix(rel, ext), "")
		files = append(files, discoveredFile{Path: path, Stem: stem})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// groupByStem buckets discovered files by their partial-merge stem,
// keeping discovery order within each group; Load re-sorts each group
// (base file first, then .partN files) before mergeDocuments runs.
func groupByStem(files []discoveredFile) map[string][]discoveredFile {
	groups := make(map[string][]discoveredFile)
	for _, f := range files {
		groups[f.Stem] = append(groups[f.Stem], f)
	}
	return groups
}
