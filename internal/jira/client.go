package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"

	"github.com/joescharf/lgtm/internal/models"
)

// Client fetches tickets from a Jira instance.
type Client interface {
	GetTicket(ctx context.Context, keyOrURL string) (*models.Ticket, error)
}

// NewClient creates a Jira REST client with basic auth credentials.
func NewClient(baseURL, username, token string) Client {
	hc := http.Client{Timeout: 30 * time.Second}
	client := resty.NewWithClient(&hc)
	client.SetBasicAuth(username, token)
	return &jiraClientImpl{baseURL: baseURL, client: client}
}

type jiraClientImpl struct {
	baseURL string
	client  *resty.Client
}

// issueFields mirrors the subset of the Jira issue payload we consume.
type issueFields struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Status      struct {
		Name string `json:"name"`
	} `json:"status"`
	Priority struct {
		Name string `json:"name"`
	} `json:"priority"`
	IssueType struct {
		Name string `json:"name"`
	} `json:"issuetype"`
	IssueLinks []struct {
		InwardIssue *struct {
			Fields struct {
				Summary string `json:"summary"`
			} `json:"fields"`
		} `json:"inwardIssue"`
		OutwardIssue *struct {
			Fields struct {
				Summary string `json:"summary"`
			} `json:"fields"`
		} `json:"outwardIssue"`
	} `json:"issuelinks"`
	Comment struct {
		Comments []struct {
			Body string `json:"body"`
		} `json:"comments"`
	} `json:"comment"`
}

type issueResponse struct {
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

func (j *jiraClientImpl) GetTicket(ctx context.Context, keyOrURL string) (*models.Ticket, error) {
	key, err := ExtractKey(keyOrURL)
	if err != nil {
		return nil, err
	}

	req := j.client.R()
	req.SetContext(ctx)
	req.SetHeader("Accept", "application/json")
	req.SetQueryParam("fields", "summary,description,status,priority,issuetype,issuelinks,comment")

	resp, err := req.Get(fmt.Sprintf("%s/rest/api/2/issue/%s", j.baseURL, url.PathEscape(key)))
	if err != nil {
		return nil, fmt.Errorf("fetch ticket %s: %w", key, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch ticket %s: status %d", key, resp.StatusCode())
	}

	var issue issueResponse
	if err := json.Unmarshal(resp.Body(), &issue); err != nil {
		return nil, fmt.Errorf("decode ticket %s: %w", key, err)
	}

	problem, criteria := ParseDescription(issue.Fields.Description)

	// Linked PR URLs come from linked issue summaries, comments, and the
	// description itself, first occurrence wins.
	var texts []string
	for _, link := range issue.Fields.IssueLinks {
		if link.InwardIssue != nil {
			texts = append(texts, link.InwardIssue.Fields.Summary)
		}
		if link.OutwardIssue != nil {
			texts = append(texts, link.OutwardIssue.Fields.Summary)
		}
	}
	for _, c := range issue.Fields.Comment.Comments {
		texts = append(texts, c.Body)
	}
	texts = append(texts, issue.Fields.Description)

	priority := issue.Fields.Priority.Name
	if priority == "" {
		priority = "Unknown"
	}

	t := &models.Ticket{
		Key:                key,
		Summary:            issue.Fields.Summary,
		Description:        problem,
		Status:             issue.Fields.Status.Name,
		Priority:           priority,
		Type:               issue.Fields.IssueType.Name,
		AcceptanceCriteria: criteria,
		LinkedPRs:          ExtractPRURLs(texts...),
	}

	log.Debugf("fetched ticket %s: %d criteria, %d linked PRs", key, len(criteria), len(t.LinkedPRs))
	return t, nil
}
