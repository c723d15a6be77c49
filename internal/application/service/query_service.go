package service

import (
	"sort"
	"strings"

	"github.com/ilcdb/record-management/internal/domain/entity"
	"github.com/ilcdb/record-management/internal/domain/lifecycle"
)

// Tab partitions records for the dashboard. The three status tabs are
// mutually exclusive; TabAll includes every record regardless of filters
// on status buckets.
type Tab string

const (
	TabAll       Tab = "all"
	TabActive    Tab = "active"
	TabCompleted Tab = "completed"
	TabArchived  Tab = "archived"
)

// Filter holds the independent, AND-combined predicates applied to a
// record list. Nil range bounds are open ends. Progress bounds are in
// phase-count units (0..N for an N-phase workflow).
type Filter struct {
	Search       string
	ProjectTypes []entity.ProjectType
	Statuses     []entity.Status
	AmountMin    *float64
	AmountMax    *float64
	ProgressMin  *int
	ProgressMax  *int
}

// SortSpec orders a record list by one column. Ties keep their original
// relative order in both directions.
type SortSpec struct {
	Column     string
	Descending bool
}

// RecordView is a record decorated with its derived display values.
type RecordView struct {
	*entity.Record
	Progress        float64 `json:"progress"`
	CompletedPhases int     `json:"completed_phases"`
	TotalPhases     int     `json:"total_phases"`
}

// QueryService derives table and dashboard views: tab buckets, filtering,
// sorting, and per-record progress.
type QueryService interface {
	Apply(records []*entity.Record, tab Tab, filter Filter, sortSpec *SortSpec) []RecordView
}

type queryServiceImpl struct {
	logger Logger
}

// NewQueryService creates a QueryService.
func NewQueryService(logger Logger) QueryService {
	return &queryServiceImpl{logger: logger}
}

func (s *queryServiceImpl) Apply(records []*entity.Record, tab Tab, filter Filter, sortSpec *SortSpec) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, rec := range records {
		if !inTab(rec, tab) {
			continue
		}
		if !matches(rec, filter) {
			continue
		}
		views = append(views, RecordView{
			Record:          rec,
			Progress:        lifecycle.Progress(rec),
			CompletedPhases: rec.CompletedPhases(),
			TotalPhases:     len(rec.Phases),
		})
	}

	if sortSpec != nil {
		sortViews(views, *sortSpec)
	}
	return views
}

func inTab(rec *entity.Record, tab Tab) bool {
	switch tab {
	case TabActive:
		return rec.Status == entity.StatusActive
	case TabCompleted:
		return rec.Status == entity.StatusCompleted
	case TabArchived:
		return rec.Status == entity.StatusArchived
	default:
		return true
	}
}

func matches(rec *entity.Record, f Filter) bool {
	if f.Search != "" && !searchMatch(rec, f.Search) {
		return false
	}
	if len(f.ProjectTypes) > 0 && !containsProjectType(f.ProjectTypes, rec.ProjectType) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, rec.Status) {
		return false
	}
	if f.AmountMin != nil && rec.Amount < *f.AmountMin {
		return false
	}
	if f.AmountMax != nil && rec.Amount > *f.AmountMax {
		return false
	}
	completed := rec.CompletedPhases()
	if f.ProgressMin != nil && completed < *f.ProgressMin {
		return false
	}
	if f.ProgressMax != nil && completed > *f.ProgressMax {
		return false
	}
	return true
}

// searchMatch does a case-insensitive substring match over the record's
// configured string fields.
func searchMatch(rec *entity.Record, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	fields := []string{
		rec.Title,
		rec.PRNumber,
		rec.SpeakerName,
		rec.ActivityTitle,
		string(rec.ProjectType),
		rec.OtherProjectType,
	}
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func containsProjectType(set []entity.ProjectType, p entity.ProjectType) bool {
	for _, v := range set {
		if v == p {
			return true
		}
	}
	return false
}

func containsStatus(set []entity.Status, s entity.Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// sortViews orders views by the named column using natural ordering of the
// underlying value. The sort is stable so equal keys keep their original
// relative order in both directions.
func sortViews(views []RecordView, spec SortSpec) {
	less := lessFunc(spec.Column)
	if less == nil {
		return
	}
	sort.SliceStable(views, func(i, j int) bool {
		if spec.Descending {
			return less(views[j], views[i])
		}
		return less(views[i], views[j])
	})
}

func lessFunc(column string) func(a, b RecordView) bool {
	switch column {
	case "amount":
		return func(a, b RecordView) bool { return a.Amount < b.Amount }
	case "progress":
		return func(a, b RecordView) bool { return a.Progress < b.Progress }
	case "created_at":
		return func(a, b RecordView) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updated_at":
		return func(a, b RecordView) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "title":
		return func(a, b RecordView) bool { return a.Title < b.Title }
	case "pr_number":
		return func(a, b RecordView) bool { return a.PRNumber < b.PRNumber }
	case "speaker_name":
		return func(a, b RecordView) bool { return a.SpeakerName < b.SpeakerName }
	case "activity_title":
		return func(a, b RecordView) bool { return a.ActivityTitle < b.ActivityTitle }
	case "project_type":
		return func(a, b RecordView) bool { return a.ProjectType < b.ProjectType }
	case "status":
		return func(a, b RecordView) bool { return a.Status < b.Status }
	default:
		return nil
	}
}
