// Package graphql embeds the GraphQL documents sent to the Monarch API.
package graphql

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed queries
var queriesFS embed.FS

// QueryLoader reads documents from the embedded tree and caches them.
type QueryLoader struct {
	mu    sync.RWMutex
	cache map[string]string
}

// NewQueryLoader creates an empty loader.
func NewQueryLoader() *QueryLoader {
	return &QueryLoader{cache: make(map[string]string)}
}

// Load returns the document at queryPath, relative to the queries root,
// e.g. "transactions/list.graphql".
func (l *QueryLoader) Load(queryPath string) (string, error) {
	l.mu.RLock()
	query, ok := l.cache[queryPath]
	l.mu.RUnlock()
	if ok {
		return query, nil
	}

	content, err := queriesFS.ReadFile(path.Join("queries", queryPath))
	if err != nil {
		return "", fmt.Errorf("failed to load query %s: %w", queryPath, err)
	}
	query = string(content)

	l.mu.Lock()
	l.cache[queryPath] = query
	l.mu.Unlock()
	return query, nil
}

// MustLoad is Load for documents that ship with the binary.
func (l *QueryLoader) MustLoad(queryPath string) string {
	query, err := l.Load(queryPath)
	if err != nil {
		panic(err)
	}
	return query
}

// List returns every embedded document path in lexical order.
func (l *QueryLoader) List() ([]string, error) {
	var out []string
	err := fs.WalkDir(queriesFS, "queries", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".graphql") {
			out = append(out, strings.TrimPrefix(p, "queries/"))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

var operationRe = regexp.MustCompile(`(?m)^\s*(?:query|mutation|subscription)\s+([_A-Za-z][_0-9A-Za-z]*)`)

// OperationName returns the name of the first named operation in query, or
// "" for anonymous documents.
func OperationName(query string) string {
	m := operationRe.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return m[1]
}

var defaultLoader = NewQueryLoader()

// Load reads a document through the shared loader.
func Load(queryPath string) (string, error) {
	return defaultLoader.Load(queryPath)
}

// MustLoad reads a document through the shared loader and panics if missing.
func MustLoad(queryPath string) string {
	return defaultLoader.MustLoad(queryPath)
}
