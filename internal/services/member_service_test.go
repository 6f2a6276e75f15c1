package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberdir/memberdir-backend/internal/dto"
	"github.com/memberdir/memberdir-backend/internal/models"
)

func validMemberRequest() *dto.MemberRequest {
	return &dto.MemberRequest{
		Name:          "Asha Rao",
		Email:         "Asha@Example.com",
		Username:      "asha.rao",
		Password:      "Secret@123",
		Mobile:        "987-654-3210",
		CreditCard:    "4111 1111 1111 1111",
		State:         "Karnataka",
		City:          "Bengaluru",
		Gender:        "Female",
		Hobbies:       []string{"Reading"},
		TechInterests: []string{"Angular"},
		Address:       "12 MG Road",
		DOB:           "1991-04-23",
	}
}

func TestMemberCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testCatalog())

	resp, err := svc.Create(validMemberRequest())
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", resp.Email)
	assert.Equal(t, "9876543210", resp.Mobile)
	assert.Equal(t, "************1111", resp.CreditCard)

	// the full card number never reaches storage
	var profile models.MemberProfile
	require.NoError(t, db.First(&profile).Error)
	assert.Equal(t, "1111", profile.CardLast4)
}

func TestMemberCreateValidation(t *testing.T) {
	svc := NewMemberService(setupTestDB(t), testCatalog())

	req := validMemberRequest()
	req.Email = "nope"
	req.State = "Nowhereland"
	_, err := svc.Create(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email format")
	assert.Contains(t, err.Error(), "Invalid state")
}

func TestMemberCreateConflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testCatalog())

	_, err := svc.Create(validMemberRequest())
	require.NoError(t, err)

	dup := validMemberRequest()
	dup.Username = "other.name"
	_, err = svc.Create(dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	dup = validMemberRequest()
	dup.Email = "other@example.com"
	_, err = svc.Create(dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestMemberListPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testCatalog())

	for i := 0; i < 3; i++ {
		req := validMemberRequest()
		req.Email = string(rune('a'+i)) + "@example.com"
		req.Username = "user.name" + string(rune('0'+i))
		_, err := svc.Create(req)
		require.NoError(t, err)
	}

	page, err := svc.List(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)

	page, err = svc.List(2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestMemberUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testCatalog())

	created, err := svc.Create(validMemberRequest())
	require.NoError(t, err)

	var before models.Member
	require.NoError(t, db.First(&before, "id = ?", created.ID).Error)

	upd := validMemberRequest()
	upd.Name = "Asha R. Rao"
	upd.City = "Mysuru"
	upd.CreditCard = "1111" // masked carry-forward
	upd.Password = "Changed@123"
	resp, err := svc.Update(created.ID, upd)
	require.NoError(t, err)

	assert.Equal(t, "Asha R. Rao", resp.Name)
	assert.Equal(t, "Mysuru", resp.City)

	// credential is never rewritten through update
	var after models.Member
	require.NoError(t, db.First(&after, "id = ?", created.ID).Error)
	assert.Equal(t, before.Password, after.Password)
}

func TestMemberUpdateNotFound(t *testing.T) {
	svc := NewMemberService(setupTestDB(t), testCatalog())
	_, err := svc.Update(uuid.New(), validMemberRequest())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestMemberDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testCatalog())

	created, err := svc.Create(validMemberRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))

	var members int64
	db.Model(&models.Member{}).Count(&members)
	assert.Equal(t, int64(0), members)

	var profiles int64
	db.Model(&models.MemberProfile{}).Count(&profiles)
	assert.Equal(t, int64(0), profiles)

	assert.ErrorIs(t, svc.Delete(created.ID), ErrMemberNotFound)
}
