package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/memberdir/memberdir-backend/internal/bulk"
	"github.com/memberdir/memberdir-backend/internal/dto"
	"github.com/memberdir/memberdir-backend/internal/fields"
	"github.com/memberdir/memberdir-backend/internal/lookup"
	"github.com/memberdir/memberdir-backend/internal/models"
)

type MemberService struct {
	db      *gorm.DB
	catalog *lookup.Catalog
}

func NewMemberService(db *gorm.DB, catalog *lookup.Catalog) *MemberService {
	return &MemberService{db: db, catalog: catalog}
}

func (s *MemberService) List(page, pageSize int) (*dto.MemberListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 25
	}

	var total int64
	if err := s.db.Model(&models.Member{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	var members []models.Member
	if err := s.db.Preload("Profile").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	items := make([]dto.MemberResponse, len(members))
	for i := range members {
		items[i] = toMemberResponse(&members[i])
	}
	return &dto.MemberListResponse{Items: items, Total: total}, nil
}

func (s *MemberService) Get(id uuid.UUID) (*dto.MemberResponse, error) {
	var member models.Member
	if err := s.db.Preload("Profile").First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	resp := toMemberResponse(&member)
	return &resp, nil
}

func (s *MemberService) Create(req *dto.MemberRequest) (*dto.MemberResponse, error) {
	normalizeRequest(req)
	if reasons := s.validate(req, true); len(reasons) > 0 {
		return nil, errors.New(strings.Join(reasons, "; "))
	}

	var existing models.Member
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	member := models.Member{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: hash,
	}
	profile := profileFromRequest(member.ID, req)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Create(profile).Error
	})
	if err != nil {
		// uniqueness constraint is the backstop for pre-check races
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	member.Profile = profile
	resp := toMemberResponse(&member)
	return &resp, nil
}

func (s *MemberService) Update(id uuid.UUID, req *dto.MemberRequest) (*dto.MemberResponse, error) {
	normalizeRequest(req)
	if reasons := s.validate(req, false); len(reasons) > 0 {
		return nil, errors.New(strings.Join(reasons, "; "))
	}

	var member models.Member
	if err := s.db.First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if req.Email != "" && req.Email != member.Email {
		var other models.Member
		if err := s.db.Where("email = ? AND id <> ?", req.Email, id).First(&other).Error; err == nil {
			return nil, ErrEmailTaken
		}
		member.Email = req.Email
	}
	if req.Username != "" && req.Username != member.Username {
		var other models.Member
		if err := s.db.Where("username = ? AND id <> ?", req.Username, id).First(&other).Error; err == nil {
			return nil, ErrUsernameTaken
		}
		member.Username = req.Username
	}
	if req.Name != "" {
		member.Name = req.Name
	}

	profile := profileFromRequest(id, req)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// stored credential is never touched on update
		if err := tx.Model(&models.Member{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"name":     member.Name,
				"email":    member.Email,
				"username": member.Username,
			}).Error; err != nil {
			return err
		}
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return s.Get(id)
}

func (s *MemberService) Delete(id uuid.UUID) error {
	var member models.Member
	if err := s.db.First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&models.MemberProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&member).Error
	})
}

func normalizeRequest(req *dto.MemberRequest) {
	req.Name = fields.Sanitize(req.Name)
	req.Email = fields.NormalizeEmail(req.Email)
	req.Username = fields.Sanitize(req.Username)
	req.Mobile = fields.DigitsOnly(req.Mobile)
	req.State = fields.Sanitize(req.State)
	req.City = fields.Sanitize(req.City)
	req.Gender = fields.Sanitize(req.Gender)
	req.Address = fields.Sanitize(req.Address)
	req.DOB = fields.NormalizeDate(req.DOB)
}

// validate applies the same field rules as the bulk path. When
// required is false (updates), fields are checked only if present.
func (s *MemberService) validate(req *dto.MemberRequest, required bool) []string {
	var reasons []string
	reject := func(r string) { reasons = append(reasons, r) }

	if req.Name == "" && required {
		reject("Name is required")
	}
	switch {
	case req.Email == "":
		if required {
			reject("Email is required")
		}
	case !bulk.ValidEmail(req.Email):
		reject("Invalid email format")
	}
	switch {
	case req.Username == "":
		if required {
			reject("Username is required")
		}
	case !bulk.ValidUsername(req.Username):
		reject("Username must be 4-20 characters using letters, digits, dot, underscore or hyphen")
	}
	switch {
	case req.Mobile == "":
		if required {
			reject("Mobile is required")
		}
	case len(req.Mobile) != 10:
		reject("Mobile must be exactly 10 digits")
	}
	if card := fields.DigitsOnly(req.CreditCard); card == "" {
		if required {
			reject("Credit Card is required")
		}
	} else if len(card) != 16 && len(card) != 4 {
		reject("Credit Card must be 16 digits, or 4 digits for an already masked value")
	}
	switch {
	case req.State == "":
		if required {
			reject("State is required")
		}
	case !s.catalog.ValidState(req.State):
		reject("Invalid state")
	}
	switch {
	case req.City == "":
		if required {
			reject("City is required")
		}
	case req.State != "" && s.catalog.ValidState(req.State) && !s.catalog.ValidCity(req.State, req.City):
		reject("City does not belong to the selected state")
	}
	switch {
	case req.Gender == "":
		if required {
			reject("Gender is required")
		}
	case !s.catalog.ValidGender(req.Gender):
		reject("Invalid gender")
	}
	if len(req.Hobbies) == 0 {
		if required {
			reject("At least one hobby is required")
		}
	} else {
		for _, h := range req.Hobbies {
			if !s.catalog.ValidHobby(h) {
				reject("Invalid hobby: " + h)
			}
		}
	}
	if len(req.TechInterests) == 0 {
		if required {
			reject("At least one tech interest is required")
		}
	} else {
		for _, ti := range req.TechInterests {
			if !s.catalog.ValidTech(ti) {
				reject("Invalid tech interest: " + ti)
			}
		}
	}
	if req.DOB == "" && required {
		reject("DOB is required")
	}
	switch {
	case req.Password == "":
		if required {
			reject("Password is required")
		}
	default:
		if reason := bulk.PasswordReason(req.Password); reason != "" {
			reject(reason)
		}
	}
	return reasons
}

func profileFromRequest(memberID uuid.UUID, req *dto.MemberRequest) *models.MemberProfile {
	p := &models.MemberProfile{
		MemberID:  memberID,
		Mobile:    req.Mobile,
		CardLast4: fields.CardLast4(req.CreditCard),
		State:     req.State,
		City:      req.City,
		Gender:    req.Gender,
		Address:   req.Address,
		DOB:       req.DOB,
	}
	p.SetHobbies(req.Hobbies)
	p.SetTechInterests(req.TechInterests)
	return p
}

func toMemberResponse(m *models.Member) dto.MemberResponse {
	resp := dto.MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Username:  m.Username,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: m.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if p := m.Profile; p != nil {
		resp.Mobile = p.Mobile
		resp.CreditCard = maskCard(p.CardLast4)
		resp.State = p.State
		resp.City = p.City
		resp.Gender = p.Gender
		resp.Hobbies = p.HobbiesList()
		resp.TechInterests = p.TechInterestsList()
		resp.Address = p.Address
		resp.DOB = p.DOB
	} else {
		resp.Hobbies = []string{}
		resp.TechInterests = []string{}
	}
	return resp
}

func maskCard(last4 string) string {
	if last4 == "" {
		return ""
	}
	return "************" + last4
}
