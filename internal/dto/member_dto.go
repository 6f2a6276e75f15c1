package dto

import "github.com/google/uuid"

// MemberRequest is the single-member create/update payload. The same
// field rules apply as on the bulk path.
type MemberRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Username      string   `json:"username"`
	Password      string   `json:"password,omitempty"`
	Mobile        string   `json:"mobile"`
	CreditCard    string   `json:"creditCard"`
	State         string   `json:"state"`
	City          string   `json:"city"`
	Gender        string   `json:"gender"`
	Hobbies       []string `json:"hobbies"`
	TechInterests []string `json:"techInterests"`
	Address       string   `json:"address"`
	DOB           string   `json:"dob"`
}

type MemberResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Mobile        string    `json:"mobile"`
	CreditCard    string    `json:"creditCard"` // masked, last 4 only
	State         string    `json:"state"`
	City          string    `json:"city"`
	Gender        string    `json:"gender"`
	Hobbies       []string  `json:"hobbies"`
	TechInterests []string  `json:"techInterests"`
	Address       string    `json:"address"`
	DOB           string    `json:"dob"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

type MemberListResponse struct {
	Items []MemberResponse `json:"items"`
	Total int64            `json:"total"`
}

type LookupResponse struct {
	Genders       []string            `json:"genders"`
	Hobbies       []string            `json:"hobbies"`
	TechInterests []string            `json:"techInterests"`
	States        []string            `json:"states"`
	Cities        []string            `json:"cities"`
	CitiesByState map[string][]string `json:"citiesByState"`
	Roles         []string            `json:"roles"`
	Departments   []string            `json:"departments"`
	Statuses      []string            `json:"statuses"`
}
