// Package client talks to the assessment API over HTTP. Client satisfies
// session.Gateway, so a session can run against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lshigami/coursexam/internal/dto"
	"github.com/lshigami/coursexam/internal/scoring"
	"github.com/lshigami/coursexam/internal/session"
	"github.com/rs/zerolog/log"
)

// StatusError is a non-2xx response other than "not found".
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("client: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ session.Gateway = (*Client)(nil)

// New builds a client for baseURL, e.g. "http://localhost:8080/api/v1".
// A nil httpClient means http.DefaultClient.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func (c *Client) GetCourse(ctx context.Context, courseID string) (*dto.CourseResponseDTO, error) {
	var out dto.CourseResponseDTO
	if err := c.do(ctx, http.MethodGet, "/courses/"+url.PathEscape(courseID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAssessment(ctx context.Context, courseID, assessmentID string) (*dto.AssessmentResponseDTO, error) {
	var out dto.AssessmentResponseDTO
	if err := c.do(ctx, http.MethodGet, assessmentPath(courseID, assessmentID, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPriorAttempt(ctx context.Context, key session.Key) (*session.Attempt, error) {
	var out dto.ProgressResponseDTO
	if err := c.do(ctx, http.MethodGet, assessmentPath(key.CourseID, key.AssessmentID, "/progress"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &session.Attempt{
		Selections: scoring.Selections(out.Options).Clone(),
		Percentage: out.Percentage,
		UpdatedAt:  out.UpdatedAt,
	}, nil
}

func (c *Client) PutAttempt(ctx context.Context, key session.Key, attempt session.Attempt) error {
	body := dto.ProgressUpsertDTO{
		UserID:         key.UserID,
		Percentage:     attempt.Percentage,
		UserSelections: attempt.Selections.Clone(),
	}
	return c.do(ctx, http.MethodPut, assessmentPath(key.CourseID, key.AssessmentID, "/progress"), nil, body, nil)
}

func (c *Client) CreateResult(ctx context.Context, key session.Key, points int) (*session.Result, error) {
	body := dto.ResultCreateDTO{UserID: key.UserID, CourseID: key.CourseID, ExamID: key.AssessmentID, Points: &points}
	var out dto.ResultResponseDTO
	if err := c.do(ctx, http.MethodPost, "/results", nil, body, &out); err != nil {
		return nil, err
	}
	return &session.Result{ID: out.ID, Points: out.Points}, nil
}

func (c *Client) GetResult(ctx context.Context, key session.Key) (*session.Result, error) {
	query := url.Values{
		"userId":   {key.UserID},
		"courseId": {key.CourseID},
		"examId":   {key.AssessmentID},
	}
	var out dto.ResultResponseDTO
	if err := c.do(ctx, http.MethodGet, "/results", query, nil, &out); err != nil {
		return nil, err
	}
	return &session.Result{ID: out.ID, Points: out.Points}, nil
}

func (c *Client) GetCertificate(ctx context.Context, key session.Key) (*session.Certificate, error) {
	var out dto.CertificateResponseDTO
	if err := c.do(ctx, http.MethodGet, assessmentPath(key.CourseID, key.AssessmentID, "/certificate"), nil, nil, &out); err != nil {
		return nil, err
	}
	return toCertificate(out), nil
}

func (c *Client) RequestCertificate(ctx context.Context, key session.Key, nameOfStudent string) (*session.Certificate, error) {
	body := dto.CertificateRequestDTO{NameOfStudent: nameOfStudent}
	var out dto.CertificateResponseDTO
	if err := c.do(ctx, http.MethodPost, assessmentPath(key.CourseID, key.AssessmentID, "/certificate"), nil, body, &out); err != nil {
		return nil, err
	}
	return toCertificate(out), nil
}

// Assessment converts an API assessment into its scoring form.
func Assessment(a dto.AssessmentResponseDTO) scoring.Assessment {
	out := scoring.Assessment{ID: a.ID, Kind: scoring.KindExam, Starter: a.Starter}
	if a.Kind == string(scoring.KindQuiz) {
		out.Kind = scoring.KindQuiz
	}
	for _, q := range a.Questions {
		out.Questions = append(out.Questions, scoring.Question{ID: q.ID, Answer: q.Answer, Options: len(q.Options)})
	}
	return out
}

func toCertificate(c dto.CertificateResponseDTO) *session.Certificate {
	return &session.Certificate{
		ID:            c.ID,
		NameOfStudent: c.NameOfStudent,
		CourseTitle:   c.CourseTitle,
		CreatedAt:     c.CreatedAt,
	}
}

func assessmentPath(courseID, assessmentID, suffix string) string {
	return "/courses/" + url.PathEscape(courseID) + "/assessments/" + url.PathEscape(assessmentID) + suffix
}

// do sends one request. 204 and 404 come back as session.ErrNotFound.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("client: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound:
		return session.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var apiErr dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
			log.Debug().Err(err).Int("status", resp.StatusCode).Msg("Client: error body is not JSON")
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}
