// Package sheets persists activity data in a per-user Google Sheet. The
// sheet belongs to the user and stays human-readable: three worksheets with
// header rows, one row per record, booleans as "TRUE"/"FALSE".
package sheets

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/emiliopalmerini/activitybot/internal/domain"
	"github.com/emiliopalmerini/activitybot/internal/ports"
)

const (
	activitiesSheet = "Activities"
	goalsSheet      = "Goals"
	buttonsSheet    = "Quick Buttons"
)

var sheetHeaders = map[string][]interface{}{
	activitiesSheet: {"Activity Name", "Duration (min)", "Timestamp", "Notes", "Date"},
	goalsSheet:      {"Activity Name", "Target (min)", "Period", "Active"},
	buttonsSheet:    {"Activity Name", "Duration (min)"},
}

// Store implements ports.Store against one user's spreadsheet. The Sheets
// API has no transactions, so the deactivate-then-append goal write and the
// check-then-append button write are serialized through mu.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	url           string
	userID        int64
	now           func() time.Time

	mu sync.Mutex
}

var _ ports.Store = (*Store)(nil)

var spreadsheetURLPattern = regexp.MustCompile(`docs\.google\.com/spreadsheets/d/([a-zA-Z0-9\-_]+)`)

// SpreadsheetID extracts the document ID from a Google Sheets URL.
func SpreadsheetID(rawURL string) (string, error) {
	m := spreadsheetURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("not a Google Sheets URL: %s", rawURL)
	}
	return m[1], nil
}

// Open connects to a spreadsheet by URL and creates any missing worksheets
// with their header rows.
func Open(ctx context.Context, svc *sheets.Service, userID int64, rawURL string) (*Store, error) {
	id, err := SpreadsheetID(rawURL)
	if err != nil {
		return nil, err
	}

	s := &Store{
		svc:           svc,
		spreadsheetID: id,
		url:           rawURL,
		userID:        userID,
		now:           time.Now,
	}
	if err := s.ensureWorksheets(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize spreadsheet: %w", err)
	}
	return s, nil
}

// URL returns the spreadsheet URL the user connected with.
func (s *Store) URL() string {
	return s.url
}

func (s *Store) ensureWorksheets(ctx context.Context) error {
	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}

	existing := make(map[string]bool, len(doc.Sheets))
	for _, sh := range doc.Sheets {
		existing[sh.Properties.Title] = true
	}

	var requests []*sheets.Request
	var missing []string
	for _, title := range []string{activitiesSheet, goalsSheet, buttonsSheet} {
		if existing[title] {
			continue
		}
		missing = append(missing, title)
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create worksheets: %w", err)
	}

	for _, title := range missing {
		if err := s.appendRow(ctx, title, sheetHeaders[title]); err != nil {
			return fmt.Errorf("failed to write %s header: %w", title, err)
		}
	}
	return nil
}

func (s *Store) appendRow(ctx context.Context, sheet string, row []interface{}) error {
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheet+"!A1", &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

// readRows returns the data rows of a worksheet, skipping the header.
func (s *Store) readRows(ctx context.Context, sheet, lastColumn string) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, fmt.Sprintf("%s!A2:%s", sheet, lastColumn)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	return resp.Values, nil
}

func (s *Store) loadEntries(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.readRows(ctx, activitiesSheet, "E")
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, row := range rows {
		if e, ok := entryFromRow(s.userID, row); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *Store) LogActivity(ctx context.Context, userID int64, activity string, minutes int, notes *string) error {
	now := s.now()
	noteText := ""
	if notes != nil {
		noteText = *notes
	}

	err := s.appendRow(ctx, activitiesSheet, []interface{}{
		activity,
		minutes,
		now.Format(timestampLayout),
		noteText,
		now.Format(domain.DateLayout),
	})
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

func (s *Store) TodayActivities(ctx context.Context, userID int64) ([]domain.Entry, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now().Format(domain.DateLayout)
	var result []domain.Entry
	// Rows are in append order; walk backward for newest first.
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Date() == today {
			result = append(result, entries[i])
		}
	}
	return result, nil
}

func (s *Store) WeekSummary(ctx context.Context, userID int64) ([]domain.ActivitySummary, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SummarizeWeek(entries, s.now()), nil
}

func (s *Store) Streak(ctx context.Context, userID int64, activity string) (int, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return 0, err
	}

	var dates []string
	for i := range entries {
		if entries[i].Activity == activity {
			dates = append(dates, entries[i].Date())
		}
	}
	return domain.StreakFromDateStrings(dates, s.now()), nil
}

func (s *Store) SetGoal(ctx context.Context, userID int64, activity string, targetMinutes int, period domain.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows(ctx, goalsSheet, "D")
	if err != nil {
		return err
	}

	// Deactivate the currently active goal for the same key. Row i of the
	// data range is spreadsheet row i+2 (the header is row 1).
	for i, row := range rows {
		g, ok := goalFromRow(userID, row)
		if !ok || !g.Active || g.Activity != activity || g.Period != period {
			continue
		}
		_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, fmt.Sprintf("%s!D%d", goalsSheet, i+2), &sheets.ValueRange{
			Values: [][]interface{}{{"FALSE"}},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to deactivate previous goal: %w", err)
		}
	}

	if err := s.appendRow(ctx, goalsSheet, []interface{}{activity, targetMinutes, string(period), "TRUE"}); err != nil {
		return fmt.Errorf("failed to record goal: %w", err)
	}
	return nil
}

func (s *Store) ActiveGoals(ctx context.Context, userID int64) ([]domain.GoalProgress, error) {
	rows, err := s.readRows(ctx, goalsSheet, "D")
	if err != nil {
		return nil, err
	}
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var goals []domain.GoalProgress
	for _, row := range rows {
		g, ok := goalFromRow(userID, row)
		if !ok || !g.Active {
			continue
		}

		progress := domain.GoalProgress{
			Activity:      g.Activity,
			TargetMinutes: g.TargetMinutes,
			Period:        g.Period,
		}
		start := g.Period.WindowStart(now)
		for i := range entries {
			if entries[i].Activity == g.Activity && entries[i].Date() >= start {
				progress.CurrentMinutes += entries[i].Minutes
			}
		}
		goals = append(goals, progress)
	}
	return goals, nil
}

func (s *Store) AddQuickButton(ctx context.Context, userID int64, activity string, minutes int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows(ctx, buttonsSheet, "B")
	if err != nil {
		return false, err
	}

	for _, row := range rows {
		if b, ok := buttonFromRow(userID, row); ok && b.Activity == activity && b.Minutes == minutes {
			return false, nil
		}
	}

	if err := s.appendRow(ctx, buttonsSheet, []interface{}{activity, minutes}); err != nil {
		return false, fmt.Errorf("failed to add quick button: %w", err)
	}
	return true, nil
}

func (s *Store) QuickButtons(ctx context.Context, userID int64) ([]domain.QuickButton, error) {
	rows, err := s.readRows(ctx, buttonsSheet, "B")
	if err != nil {
		return nil, err
	}

	var buttons []domain.QuickButton
	for _, row := range rows {
		if b, ok := buttonFromRow(userID, row); ok {
			buttons = append(buttons, b)
		}
	}
	domain.SortButtons(buttons)
	return buttons, nil
}
