// Package local implements host.Pipeline outside a CI runner. Exports are
// kept in memory and optionally written to a writer as dotenv lines.
package local

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	masker "github.com/goliatone/go-masker"

	"github.com/useparagon/aws-secretsmanager-get-secrets/host"
)

// Host is an in-memory pipeline. It is not safe for concurrent use.
type Host struct {
	out       io.Writer
	logger    *slog.Logger
	mask      bool
	newDelim  func() string
	sensitive map[string]struct{}
	exports   []host.Assignment
	index     map[string]int
	failures  []string
}

var _ host.Pipeline = (*Host)(nil)

// Option configures a Host.
type Option func(*Host)

// WithOutput writes every export to w in dotenv form.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		h.out = w
	}
}

// WithLogger routes Info, Debug, Warning and Fail messages to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithMasking prints a masked preview instead of each sensitive value.
func WithMasking(mask bool) Option {
	return func(h *Host) {
		h.mask = mask
	}
}

// New returns a Host.
func New(opts ...Option) *Host {
	h := &Host{
		newDelim:  func() string { return "EOF_" + uuid.NewString() },
		sensitive: make(map[string]struct{}),
		index:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Info implements host.Pipeline.
func (h *Host) Info(msg string) {
	if h.logger != nil {
		h.logger.Info(msg)
	}
}

// Debug implements host.Pipeline.
func (h *Host) Debug(msg string) {
	if h.logger != nil {
		h.logger.Debug(msg)
	}
}

// Warning implements host.Pipeline.
func (h *Host) Warning(msg string) {
	if h.logger != nil {
		h.logger.Warn(msg)
	}
}

// Fail records msg and logs it at error level.
func (h *Host) Fail(msg string) {
	h.failures = append(h.failures, msg)
	if h.logger != nil {
		h.logger.Error(msg)
	}
}

// Failures returns every message passed to Fail.
func (h *Host) Failures() []string {
	return append([]string(nil), h.failures...)
}

// MarkSensitive implements host.Pipeline.
func (h *Host) MarkSensitive(value string) {
	h.sensitive[value] = struct{}{}
}

// IsSensitive reports whether value was marked sensitive.
func (h *Host) IsSensitive(value string) bool {
	_, ok := h.sensitive[value]
	return ok
}

// ExportVariable records name=value, replacing an earlier export of name in place.
func (h *Host) ExportVariable(name, value string) error {
	if i, ok := h.index[name]; ok {
		h.exports[i].Value = value
	} else {
		h.index[name] = len(h.exports)
		h.exports = append(h.exports, host.Assignment{Name: name, Value: value})
	}

	if h.out == nil {
		return nil
	}
	shown := value
	if h.mask && h.IsSensitive(value) {
		shown = Mask(value)
	}
	_, err := io.WriteString(h.out, h.dotenv(name, shown))
	return err
}

// Exports returns the exported variables in first-export order.
func (h *Host) Exports() []host.Assignment {
	return append([]host.Assignment(nil), h.exports...)
}

// Environ returns the exports as KEY=VALUE strings suitable for exec.Cmd.Env.
func (h *Host) Environ() []string {
	env := make([]string, 0, len(h.exports))
	for _, a := range h.exports {
		env = append(env, a.Name+"="+a.Value)
	}
	return env
}

// dotenv renders one line, using a heredoc for multi-line values.
func (h *Host) dotenv(name, value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return name + "=" + value + "\n"
	}
	delim := h.newDelim()
	for strings.Contains(value, delim) {
		delim = h.newDelim()
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delim, value, delim)
}

// Mask returns a preview of value keeping at most two characters at each end.
// If the masker fails the whole value is starred out.
func Mask(value string) string {
	masked, err := masker.Default.String("preserveEnds(2,2)", value)
	if err != nil {
		return strings.Repeat("*", utf8.RuneCountInString(value))
	}
	return masked
}
