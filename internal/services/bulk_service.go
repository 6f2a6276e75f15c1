package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/memberdir/memberdir-backend/internal/bulk"
	"github.com/memberdir/memberdir-backend/internal/dto"
	"github.com/memberdir/memberdir-backend/internal/excel"
	"github.com/memberdir/memberdir-backend/internal/fields"
	"github.com/memberdir/memberdir-backend/internal/lookup"
	"github.com/memberdir/memberdir-backend/internal/models"
)

var ErrEmptySheet = errors.New("uploaded sheet contains no data rows")

// BulkService runs the spreadsheet reconciliation pipeline: parse,
// classify ADD/EDIT, validate, resolve duplicates and store conflicts,
// then either report (dry run) or commit in one transaction.
type BulkService struct {
	db      *gorm.DB
	catalog *lookup.Catalog
}

func NewBulkService(db *gorm.DB, catalog *lookup.Catalog) *BulkService {
	return &BulkService{db: db, catalog: catalog}
}

// Process ingests one uploaded workbook. Row-level problems become
// entries in the response; batch-level problems (bad header, empty
// sheet, failed transaction) come back as an error and nothing is
// applied.
func (s *BulkService) Process(upload io.Reader, dryRun bool) (*dto.BulkUploadResponse, error) {
	header, dataRows, err := excel.ParseUpload(upload)
	if err != nil {
		if errors.Is(err, excel.ErrEmptySheet) {
			return nil, ErrEmptySheet
		}
		return nil, err
	}

	index, err := bulk.ResolveHeader(header)
	if err != nil {
		return nil, err
	}

	rows := make([]*bulk.Row, 0, len(dataRows))
	for i, cells := range dataRows {
		if bulk.Blank(cells) {
			continue
		}
		// display numbers count sheet lines, header is line 1
		rows = append(rows, bulk.NewRow(i+2, index, cells))
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	for _, r := range rows {
		bulk.Validate(r, s.catalog)
	}
	bulk.MarkFileDuplicates(rows)

	snap, err := s.loadSnapshot(rows)
	if err != nil {
		return nil, err
	}
	bulk.MarkStoreConflicts(rows, snap)

	p := bulk.Split(rows)

	resp := &dto.BulkUploadResponse{
		ErrorCount:   len(p.Rejected),
		ErrorDetails: make([]dto.BulkRowError, 0, len(p.Rejected)),
		DryRun:       dryRun,
	}
	for _, r := range p.Rejected {
		resp.ErrorDetails = append(resp.ErrorDetails, dto.BulkRowError{
			RowNumber: r.Number,
			Reason:    r.Reason(),
		})
	}

	if !dryRun {
		created, updated, err := s.commit(p.Accepted, snap)
		if err != nil {
			return nil, fmt.Errorf("bulk commit failed: %w", err)
		}
		resp.Created = created
		resp.Updated = updated
	}

	if resp.ErrorCount > 0 {
		report := make([]excel.ReportRow, 0, len(p.Rejected))
		for _, r := range p.Rejected {
			report = append(report, excel.ReportRow{Cells: r.Cells, Reason: r.Reason()})
		}
		artifact, err := excel.RenderErrorReport(report)
		if err != nil {
			slog.Error("failed to render bulk error report", "error", err)
		} else {
			encoded := base64.StdEncoding.EncodeToString(artifact)
			resp.ErrorFileBase64 = &encoded
		}
	}

	return resp, nil
}

// loadSnapshot issues the two conflict queries: one by the email and
// username sets of all surviving rows, one by the identifier set of
// the surviving EDIT rows.
func (s *BulkService) loadSnapshot(rows []*bulk.Row) (*bulk.StoreSnapshot, error) {
	var emails, usernames, ids []string
	for _, r := range rows {
		if r.Rejected() {
			continue
		}
		if r.Email != "" {
			emails = append(emails, r.Email)
		}
		if r.Username != "" {
			usernames = append(usernames, r.Username)
		}
		if r.Mode == bulk.ModeEdit {
			ids = append(ids, r.Identifier)
		}
	}

	var existing []bulk.Existing
	if len(emails) > 0 || len(usernames) > 0 {
		var byKey []models.Member
		if err := s.db.Select("id", "name", "email", "username").
			Where("email IN ? OR username IN ?", emails, usernames).
			Find(&byKey).Error; err != nil {
			return nil, fmt.Errorf("failed to query members by email/username: %w", err)
		}
		existing = appendExisting(existing, byKey)
	}
	if len(ids) > 0 {
		var byID []models.Member
		if err := s.db.Select("id", "name", "email", "username").
			Where("id IN ?", validUUIDs(ids)).
			Find(&byID).Error; err != nil {
			return nil, fmt.Errorf("failed to query members by identifier: %w", err)
		}
		existing = appendExisting(existing, byID)
	}

	return bulk.NewStoreSnapshot(existing), nil
}

// commit applies the accepted set all-or-nothing: ADD rows become new
// members and profiles, EDIT rows upsert their profiles, and member
// header fields change through one multi-row conditional upsert
// covering only the rows whose values differ.
func (s *BulkService) commit(accepted []*bulk.Row, snap *bulk.StoreSnapshot) (created, updated int, err error) {
	var newMembers []models.Member
	var newProfiles []models.MemberProfile
	var editProfiles []models.MemberProfile
	var changedHeaders []models.Member

	for _, r := range accepted {
		switch r.Mode {
		case bulk.ModeAdd:
			hash, hashErr := hashPassword(r.Password)
			if hashErr != nil {
				return 0, 0, hashErr
			}
			id := uuid.New()
			newMembers = append(newMembers, models.Member{
				ID:       id,
				Name:     r.Name,
				Email:    r.Email,
				Username: r.Username,
				Password: hash,
			})
			newProfiles = append(newProfiles, profileFromRow(id, r))

		case bulk.ModeEdit:
			cur := snap.ByID[r.Identifier]
			editProfiles = append(editProfiles, profileFromRow(cur.ID, r))

			// EDIT passwords are validated upstream but never written
			name, email, username := cur.Name, cur.Email, cur.Username
			if r.Name != "" {
				name = r.Name
			}
			if r.Email != "" {
				email = r.Email
			}
			if r.Username != "" {
				username = r.Username
			}
			if name != cur.Name || email != cur.Email || username != cur.Username {
				changedHeaders = append(changedHeaders, models.Member{
					ID:       cur.ID,
					Name:     name,
					Email:    email,
					Username: username,
				})
			}
		}
	}

	if len(newMembers) == 0 && len(editProfiles) == 0 {
		return 0, 0, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(newMembers) > 0 {
			if err := tx.Create(&newMembers).Error; err != nil {
				return err
			}
			if err := tx.Create(&newProfiles).Error; err != nil {
				return err
			}
		}
		if len(editProfiles) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "member_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"mobile", "card_last4", "state", "city", "gender",
					"hobbies", "tech_interests", "address", "dob", "updated_at",
				}),
			}).Create(&editProfiles).Error; err != nil {
				return err
			}
		}
		if len(changedHeaders) > 0 {
			if err := applyHeaderUpdates(tx, changedHeaders); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return len(newMembers), len(editProfiles), nil
}

// applyHeaderUpdates changes the header fields of every listed member
// in one multi-row conditional UPDATE keyed by the identifier list.
// Uniqueness stays enforced by the table constraints, so a pre-check
// race still fails the batch instead of corrupting it.
func applyHeaderUpdates(tx *gorm.DB, changed []models.Member) error {
	var sb strings.Builder
	args := make([]interface{}, 0, len(changed)*6+2)
	ids := make([]uuid.UUID, 0, len(changed))

	writeCase := func(column string, value func(models.Member) string) {
		sb.WriteString(column)
		sb.WriteString(" = CASE id")
		for _, m := range changed {
			sb.WriteString(" WHEN ? THEN ?")
			args = append(args, m.ID, value(m))
		}
		sb.WriteString(" END")
	}

	sb.WriteString("UPDATE members SET ")
	writeCase("name", func(m models.Member) string { return m.Name })
	sb.WriteString(", ")
	writeCase("email", func(m models.Member) string { return m.Email })
	sb.WriteString(", ")
	writeCase("username", func(m models.Member) string { return m.Username })
	sb.WriteString(", updated_at = ? WHERE id IN ?")

	for _, m := range changed {
		ids = append(ids, m.ID)
	}
	args = append(args, time.Now(), ids)

	return tx.Exec(sb.String(), args...).Error
}

// Template renders the downloadable workbook; mode "data" pre-fills
// every member so the re-uploaded rows default to EDIT.
func (s *BulkService) Template(mode, downloadedBy string) ([]byte, error) {
	var dataRows [][]string
	if mode == "data" {
		var members []models.Member
		if err := s.db.Preload("Profile").Order("created_at ASC").Find(&members).Error; err != nil {
			return nil, fmt.Errorf("failed to load members for template: %w", err)
		}
		dataRows = make([][]string, 0, len(members))
		for i := range members {
			dataRows = append(dataRows, exportRow(&members[i]))
		}
	}
	return excel.RenderTemplate(s.catalog, dataRows, downloadedBy)
}

// exportRow serializes one member in canonical column order. The card
// cell carries only the masked last-4 digits; the password cell stays
// empty.
func exportRow(m *models.Member) []string {
	row := make([]string, len(bulk.Columns))
	row[0] = m.ID.String()
	row[1] = m.Name
	row[2] = m.Email
	row[3] = m.Username
	if p := m.Profile; p != nil {
		row[4] = p.Mobile
		row[5] = p.CardLast4
		row[6] = p.State
		row[7] = p.City
		row[8] = p.Gender
		row[9] = fields.JoinList(p.HobbiesList())
		row[10] = fields.JoinList(p.TechInterestsList())
		row[11] = p.Address
		row[12] = p.DOB
	}
	return row
}

func profileFromRow(memberID uuid.UUID, r *bulk.Row) models.MemberProfile {
	p := models.MemberProfile{
		MemberID:  memberID,
		Mobile:    r.Mobile,
		CardLast4: r.CardLast4,
		State:     r.State,
		City:      r.City,
		Gender:    r.Gender,
		Address:   r.Address,
		DOB:       r.DOB,
	}
	p.SetHobbies(r.Hobbies)
	p.SetTechInterests(r.TechInterests)
	return p
}

func appendExisting(dst []bulk.Existing, members []models.Member) []bulk.Existing {
	for _, m := range members {
		dst = append(dst, bulk.Existing{
			ID:       m.ID,
			Name:     m.Name,
			Email:    m.Email,
			Username: m.Username,
		})
	}
	return dst
}

func validUUIDs(ids []string) []uuid.UUID {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		if id, err := uuid.Parse(raw); err == nil {
			parsed = append(parsed, id)
		}
	}
	return parsed
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
