// Package query computes the page of server records to render for a given
// filter state.
package query

import (
	"strings"

	"github.com/agentfleet/fleetconsole/pkg/models"
)

// PageSize is the fixed number of records per page.
const PageSize = 6

// Filter is the query state coming from the console.
type Filter struct {
	// Status is a RunStatus value or StatusFilterAll, matched
	// case-insensitively.
	Status string
	// Search is a free-text term matched case-insensitively against
	// several record fields.
	Search string
	// Page is 1-indexed. Out-of-range pages yield an empty page.
	Page int
	// PublicOnly restricts the pipeline to public records before any
	// other step. Used by the public API surface.
	PublicOnly bool
}

// Result is the derived view of the record list.
type Result struct {
	// Servers is the requested page of the filtered list.
	Servers []models.ServerRecord
	// TotalCount is the number of records after filtering.
	TotalCount int
	// TotalPages is ceil(TotalCount / PageSize).
	TotalPages int
	// Page echoes the requested page.
	Page int
	// CountsByStatus maps each run status (plus "All") to the number of
	// records with that status, counted before the search step so filter
	// tab badges stay stable while searching.
	CountsByStatus map[string]int
}

// Run derives the visible page from the full record list. It is a pure
// function: identical inputs produce identical output.
func Run(records []models.ServerRecord, filter Filter) Result {
	if filter.PublicOnly {
		visible := make([]models.ServerRecord, 0, len(records))
		for _, record := range records {
			if record.IsPublic {
				visible = append(visible, record)
			}
		}
		records = visible
	}

	counts := countByStatus(records)

	filtered := records
	if filter.Status != "" && !strings.EqualFold(filter.Status, models.StatusFilterAll) {
		filtered = make([]models.ServerRecord, 0, len(records))
		for _, record := range records {
			if strings.EqualFold(string(record.RunStatus), filter.Status) {
				filtered = append(filtered, record)
			}
		}
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	if search != "" {
		matched := make([]models.ServerRecord, 0, len(filtered))
		for _, record := range filtered {
			if matches(&record, search) {
				matched = append(matched, record)
			}
		}
		filtered = matched
	}

	totalCount := len(filtered)
	totalPages := (totalCount + PageSize - 1) / PageSize

	return Result{
		Servers:        page(filtered, filter.Page),
		TotalCount:     totalCount,
		TotalPages:     totalPages,
		Page:           filter.Page,
		CountsByStatus: counts,
	}
}

// matches reports whether any searchable field of the record contains the
// lowercased search term.
func matches(record *models.ServerRecord, search string) bool {
	fields := []string{
		record.Name,
		record.Command,
		record.Endpoint,
		string(record.Transport),
		record.CreatedBy,
		record.VisibilityWord(),
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	for _, file := range record.SourceFiles {
		if strings.Contains(strings.ToLower(file.Path), search) {
			return true
		}
	}
	return false
}

func page(records []models.ServerRecord, pageNum int) []models.ServerRecord {
	if pageNum < 1 {
		return []models.ServerRecord{}
	}
	start := (pageNum - 1) * PageSize
	if start >= len(records) {
		return []models.ServerRecord{}
	}
	end := start + PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

func countByStatus(records []models.ServerRecord) map[string]int {
	counts := make(map[string]int, len(models.RunStatuses)+1)
	counts[models.StatusFilterAll] = len(records)
	for _, status := range models.RunStatuses {
		counts[string(status)] = 0
	}
	for _, record := range records {
		counts[string(record.RunStatus)]++
	}
	return counts
}
