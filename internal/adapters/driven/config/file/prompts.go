package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
	"github.com/custodia-labs/verdict/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// DefaultAnswerPrompt is the preamble placed before the retrieved legal texts.
const DefaultAnswerPrompt = driven.DefaultAnswerPrompt

var defaultPrompts = map[string]string{
	driven.PromptAnswer: DefaultAnswerPrompt,
}

const promptReadme = `# Verdict Prompts

Prompts used when generating answers.

- answer.txt: preamble placed before the retrieved legal texts

The retrieved texts and the question are appended after the preamble, so it
needs no placeholders. A running "verdict serve" or "verdict mcp serve"
reloads a file as soon as it is saved. An empty file restores the default.
`

// PromptStore reads prompt templates from <dir>/<name>.txt, seeding the
// directory with the built-in defaults on first use. Missing or empty files
// fall back to the built-in text.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore does no I/O. An empty promptDir means ~/.verdict/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".verdict", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the named prompt, reading it from disk at most once between
// reloads.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.read(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()
	return prompt, nil
}

// Reload drops cached prompts so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// read resolves one prompt from disk or the built-in defaults.
func (s *PromptStore) read(name string) (string, error) {
	fallback, known := defaultPrompts[name]

	if s.initErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w: %w", domain.ErrNotFound, s.initErr)
	}

	data, err := os.ReadFile(s.path(name))
	switch {
	case err != nil && known:
		return fallback, nil
	case err != nil:
		return "", fmt.Errorf("load prompt %q: %w: %w", name, domain.ErrNotFound, err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" && known {
		logger.Debug("prompt %s is empty, using the default", name)
		return fallback, nil
	}
	return prompt, nil
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

// initialise creates the directory and writes any default prompt or README
// that is not there yet. Existing files are never overwritten.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	seed := map[string]string{filepath.Join(s.promptDir, "README.md"): promptReadme}
	for name, content := range defaultPrompts {
		seed[s.path(name)] = content + "\n"
	}

	for path, content := range seed {
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			s.initErr = fmt.Errorf("seed %s: %w", filepath.Base(path), err)
			return
		}
	}
}
