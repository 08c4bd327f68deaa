package hubspotapi

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrContactNotFound is returned when a contact search doesn't match any contact
var ErrContactNotFound = errors.New("no hubspot contact found for email address")

// Deal is a deal object as returned by the crm v3 objects api
type Deal struct {
	ID         string         `json:"id"`
	Properties DealProperties `json:"properties"`
	CreatedAt  *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time     `json:"updatedAt,omitempty"`
	Archived   bool           `json:"archived"`
}

// DealProperties holds the requested properties of a deal; hubspot returns all of them as strings
type DealProperties struct {
	DealName  string `json:"dealname"`
	Amount    string `json:"amount"`
	DealStage string `json:"dealstage"`
	CloseDate string `json:"closedate"`
}

// GetAmount parses the amount property, returning false if it's empty or not a number
func (d *Deal) GetAmount() (float64, bool) {
	if d.Properties.Amount == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(d.Properties.Amount, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// GetCloseDate parses the closedate property
func (d *Deal) GetCloseDate() (time.Time, bool) {
	if d.Properties.CloseDate == "" {
		return time.Time{}, false
	}
	closeDate, err := time.Parse(time.RFC3339, d.Properties.CloseDate)
	if err != nil {
		return time.Time{}, false
	}
	return closeDate, true
}

// Contact is a contact object as returned by the crm v3 objects api
type Contact struct {
	ID         string            `json:"id"`
	Properties ContactProperties `json:"properties"`
}

// ContactProperties holds the requested properties of a contact
type ContactProperties struct {
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// GetDisplayName returns the full name of the contact, or the email address if no name is known
func (c *Contact) GetDisplayName() string {
	switch {
	case c.Properties.FirstName != "" && c.Properties.LastName != "":
		return c.Properties.FirstName + " " + c.Properties.LastName
	case c.Properties.FirstName != "":
		return c.Properties.FirstName
	case c.Properties.LastName != "":
		return c.Properties.LastName
	}
	return c.Properties.Email
}

// Note is an engagement note attached to a crm object
type Note struct {
	ID         string         `json:"id"`
	Properties NoteProperties `json:"properties"`
}

// NoteProperties holds the properties of a note
type NoteProperties struct {
	Body      string `json:"hs_note_body"`
	Timestamp string `json:"hs_timestamp"`
}

// noteToContactAssociationTypeID is hubspot's built-in association type for note to contact
const noteToContactAssociationTypeID = 202

type dealsResponse struct {
	Results []*Deal `json:"results"`
}

type contactsResponse struct {
	Total   int        `json:"total"`
	Results []*Contact `json:"results"`
}

type searchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchFilterGroup struct {
	Filters []searchFilter `json:"filters"`
}

type searchRequest struct {
	FilterGroups []searchFilterGroup `json:"filterGroups"`
	Properties   []string            `json:"properties"`
	Limit        int                 `json:"limit"`
}

type associationType struct {
	AssociationCategory string `json:"associationCategory"`
	AssociationTypeID   int    `json:"associationTypeId"`
}

type associationTarget struct {
	ID string `json:"id"`
}

type association struct {
	To    associationTarget `json:"to"`
	Types []associationType `json:"types"`
}

type createNoteRequest struct {
	Properties   NoteProperties `json:"properties"`
	Associations []association  `json:"associations"`
}

// APIError is returned for non-2xx responses of the hubspot api
type APIError struct {
	StatusCode    int    `json:"-"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	Category      string `json:"category"`
	CorrelationID string `json:"correlationId"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("hubspot api responded with status code %v: %v", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("hubspot api responded with status code %v", e.StatusCode)
}

// IsUnauthorized indicates the configured token is invalid or lacks scopes
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
