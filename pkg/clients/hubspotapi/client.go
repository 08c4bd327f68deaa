package hubspotapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
	"github.com/sethgrid/pester"
	"github.com/strategiotech/bd-barry/pkg/api"
)

// Client is the interface for communicating with the hubspot crm api
//
//go:generate mockgen -package=hubspotapi -destination ./mock.go -source=client.go
type Client interface {
	GetDeals(ctx context.Context, limit int) (deals []*Deal, err error)
	SearchContactByEmail(ctx context.Context, email string) (contact *Contact, err error)
	CreateNote(ctx context.Context, contactID, body string, timestamp time.Time) (note *Note, err error)
}

// NewClient returns a hubspotapi.Client authenticating with the private app token from the config
func NewClient(config *api.HubspotConfig) Client {
	return &client{
		config:     config,
		httpClient: &http.Client{Transport: &nethttp.Transport{}},
	}
}

type client struct {
	config     *api.HubspotConfig
	httpClient *http.Client
}

func (c *client) GetDeals(ctx context.Context, limit int) (deals []*Deal, err error) {

	// https://developers.hubspot.com/docs/api/crm/deals
	query := url.Values{}
	query.Set("limit", fmt.Sprint(limit))
	query.Set("properties", "dealname,amount,dealstage,closedate")

	body, err := c.callHubspotAPI(ctx, http.MethodGet, "/crm/v3/objects/deals?"+query.Encode(), nil, 3)
	if err != nil {
		return
	}

	var response dealsResponse
	err = json.Unmarshal(body, &response)
	if err != nil {
		return
	}

	return response.Results, nil
}

func (c *client) SearchContactByEmail(ctx context.Context, email string) (contact *Contact, err error) {

	// https://developers.hubspot.com/docs/api/crm/search
	request := searchRequest{
		FilterGroups: []searchFilterGroup{
			{
				Filters: []searchFilter{
					{PropertyName: "email", Operator: "EQ", Value: strings.ToLower(email)},
				},
			},
		},
		Properties: []string{"email", "firstname", "lastname"},
		Limit:      1,
	}

	// search doesn't modify anything, so it's safe to retry
	body, err := c.callHubspotAPI(ctx, http.MethodPost, "/crm/v3/objects/contacts/search", request, 3)
	if err != nil {
		return
	}

	var response contactsResponse
	err = json.Unmarshal(body, &response)
	if err != nil {
		return
	}

	if len(response.Results) == 0 {
		return nil, ErrContactNotFound
	}

	return response.Results[0], nil
}

func (c *client) CreateNote(ctx context.Context, contactID, body string, timestamp time.Time) (note *Note, err error) {

	// https://developers.hubspot.com/docs/api/crm/notes
	request := createNoteRequest{
		Properties: NoteProperties{
			Body:      body,
			Timestamp: timestamp.UTC().Format(time.RFC3339),
		},
		Associations: []association{
			{
				To: associationTarget{ID: contactID},
				Types: []associationType{
					{AssociationCategory: "HUBSPOT_DEFINED", AssociationTypeID: noteToContactAssociationTypeID},
				},
			},
		},
	}

	// a retried create could duplicate the note
	responseBody, err := c.callHubspotAPI(ctx, http.MethodPost, "/crm/v3/objects/notes", request, 1)
	if err != nil {
		return
	}

	note = &Note{}
	err = json.Unmarshal(responseBody, note)
	if err != nil {
		return nil, err
	}

	return note, nil
}

func (c *client) callHubspotAPI(ctx context.Context, method, path string, params interface{}, maxRetries int) (body []byte, err error) {

	// convert params to json if they're present
	var requestBody io.Reader
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		requestBody = bytes.NewReader(data)
	}

	// create client, in order to add headers
	client := pester.NewExtendedClient(c.httpClient)
	client.MaxRetries = maxRetries
	client.Backoff = pester.ExponentialJitterBackoff
	client.KeepLog = true
	client.Timeout = time.Second * 10

	request, err := http.NewRequest(method, c.config.BaseURL+path, requestBody)
	if err != nil {
		return
	}
	request = request.WithContext(ctx)

	span := opentracing.SpanFromContext(ctx)
	var ht *nethttp.Tracer
	if span != nil {
		// collect additional information on setting up connections
		request, ht = nethttp.TraceRequest(span.Tracer(), request)
	}

	// add headers
	request.Header.Add("Authorization", fmt.Sprintf("Bearer %v", c.config.Token))
	request.Header.Add("Accept", "application/json")
	if params != nil {
		request.Header.Add("Content-Type", "application/json")
	}

	// perform actual request
	response, err := client.Do(request)
	if err != nil {
		return
	}

	defer response.Body.Close()
	if ht != nil {
		ht.Finish()
	}

	body, err = io.ReadAll(response.Body)
	if err != nil {
		return
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiError := &APIError{StatusCode: response.StatusCode}
		if jsonErr := json.Unmarshal(body, apiError); jsonErr != nil {
			log.Warn().Err(jsonErr).
				Str("path", path).
				Str("requestMethod", method).
				Int("statusCode", response.StatusCode).
				Msg("Deserializing error response for hubspot api call failed")
		}
		return nil, apiError
	}

	return body, nil
}
