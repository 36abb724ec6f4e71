package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sagarc03/todos"
)

// Formatter formats results for output.
type Formatter interface {
	FormatItems(w io.Writer, items []todos.Item) error
	FormatItem(w io.Writer, item todos.Item) error
	FormatDeleted(w io.Writer, itemID string) error
	FormatAttach(w io.Writer, result *AttachResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatItems prints items as a table.
func (f *HumanFormatter) FormatItems(w io.Writer, items []todos.Item) error {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "No items found")
		return nil
	}

	maxNameLen := 4 // "NAME"
	for i := range items {
		maxNameLen = max(maxNameLen, utf8.RuneCountInString(items[i].Name))
	}
	maxNameLen = min(maxNameLen, 40)

	_, _ = fmt.Fprintf(w, "%-36s  %-4s  %-10s  %-*s  %s\n", "ID", "DONE", "DUE", maxNameLen, "NAME", "ATTACHMENT")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		strings.Repeat("-", 36), strings.Repeat("-", 4), strings.Repeat("-", 10), strings.Repeat("-", maxNameLen), strings.Repeat("-", 10))

	done := 0
	for i := range items {
		item := &items[i]
		if item.Done {
			done++
		}
		name := truncate(item.Name, maxNameLen)
		attachment := "-"
		if item.AttachmentURL != "" {
			attachment = "yes"
		}
		_, _ = fmt.Fprintf(w, "%-36s  %-4s  %-10s  %-*s  %s\n",
			item.ItemID,
			checkmark(item.Done),
			item.DueDate,
			maxNameLen,
			name,
			attachment,
		)
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d item(s), %d done\n", len(items), done)
	}
	return nil
}

// FormatItem prints one item with all fields.
func (f *HumanFormatter) FormatItem(w io.Writer, item todos.Item) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, item.ItemID)
		return nil
	}

	_, _ = fmt.Fprintf(w, "ID:          %s\n", item.ItemID)
	_, _ = fmt.Fprintf(w, "Name:        %s\n", item.Name)
	_, _ = fmt.Fprintf(w, "Due:         %s\n", item.DueDate)
	_, _ = fmt.Fprintf(w, "Done:        %t\n", item.Done)
	if item.Description != "" {
		_, _ = fmt.Fprintf(w, "Description: %s\n", item.Description)
	}
	if item.PriorityPoints != 0 {
		_, _ = fmt.Fprintf(w, "Priority:    %d\n", item.PriorityPoints)
	}
	if item.AttachmentURL != "" {
		_, _ = fmt.Fprintf(w, "Attachment:  %s\n", item.AttachmentURL)
	}
	_, _ = fmt.Fprintf(w, "Created:     %s\n", item.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

// FormatDeleted confirms a deletion.
func (f *HumanFormatter) FormatDeleted(w io.Writer, itemID string) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Deleted: %s\n", itemID)
	}
	return nil
}

// FormatAttach confirms an attachment upload.
func (f *HumanFormatter) FormatAttach(w io.Writer, result *AttachResult) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, result.AttachmentURL)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Attached: %s -> %s (%s)\n", result.LocalPath, result.ItemID, formatSize(result.Size))
	_, _ = fmt.Fprintf(w, "  URL: %s\n", result.AttachmentURL)
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatItems formats items as JSON.
func (f *JSONFormatter) FormatItems(w io.Writer, items []todos.Item) error {
	if items == nil {
		items = []todos.Item{}
	}
	return writeJSON(w, listEnvelope{Items: items})
}

// FormatItem formats one item as JSON.
func (f *JSONFormatter) FormatItem(w io.Writer, item todos.Item) error {
	return writeJSON(w, itemEnvelope{Item: item})
}

// FormatDeleted formats a deletion as JSON.
func (f *JSONFormatter) FormatDeleted(w io.Writer, itemID string) error {
	return writeJSON(w, struct {
		ItemID  string `json:"itemId"`
		Deleted bool   `json:"deleted"`
	}{ItemID: itemID, Deleted: true})
}

// FormatAttach formats an attachment upload as JSON.
func (f *JSONFormatter) FormatAttach(w io.Writer, result *AttachResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	return writeJSON(w, map[string]string{"error": err.Error()})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkmark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	if len(profiles) == 0 {
		_, _ = fmt.Fprintln(w, "No profiles configured")
		return nil
	}

	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		maxNameLen = max(maxNameLen, utf8.RuneCountInString(profiles[i].Name))
		maxEndpointLen = max(maxEndpointLen, utf8.RuneCountInString(profiles[i].Endpoint))
	}
	maxNameLen = min(maxNameLen, 20)
	maxEndpointLen = min(maxEndpointLen, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "TOKEN")

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		name := truncate(p.Name, maxNameLen)
		endpoint := truncate(p.Endpoint, maxEndpointLen)

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n", marker, maxNameLen, name, maxEndpointLen, endpoint, maskSecret(p.Token, showSecrets))
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Token:    %s\n", maskSecret(profile.Token, showSecrets))
	return nil
}

type jsonProfile struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Token    string `json:"token"`
	Default  bool   `json:"default"`
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:     p.Name,
			Endpoint: p.Endpoint,
			Token:    maskSecret(p.Token, showSecrets),
			Default:  p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, jsonProfile{
		Name:     profile.Name,
		Endpoint: profile.Endpoint,
		Token:    maskSecret(profile.Token, showSecrets),
		Default:  isDefault,
	})
}

// maskSecret masks a secret string, showing only first 4 and last 4 characters.
// If showSecrets is true, returns the original value.
// If the secret is too short, returns all asterisks.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
