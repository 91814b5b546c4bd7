package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"

	"github.com/joescharf/lgtm/internal/models"
)

const apiBaseURL = "https://api.github.com"

var prURLPattern = regexp.MustCompile(`github\.com/([\w\-.]+)/([\w\-.]+)/pull/(\d+)`)

// PRRef identifies one pull request.
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

func (r PRRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// ParsePRURL extracts owner, repo, and number from a pull request URL.
func ParsePRURL(prURL string) (PRRef, error) {
	m := prURLPattern.FindStringSubmatch(prURL)
	if m == nil {
		return PRRef{}, fmt.Errorf("not a pull request URL: %s", prURL)
	}
	number, err := strconv.Atoi(m[3])
	if err != nil {
		return PRRef{}, fmt.Errorf("not a pull request URL: %s", prURL)
	}
	return PRRef{Owner: m[1], Repo: m[2], Number: number}, nil
}

// Client fetches pull request diffs from GitHub.
type Client interface {
	GetDiff(ctx context.Context, ref PRRef) (*models.DiffSummary, error)
}

// NewClient creates a GitHub REST client. An empty token means
// unauthenticated access (public repos, low rate limits).
func NewClient(token string, testPatterns []string) Client {
	hc := http.Client{Timeout: 30 * time.Second}
	client := resty.NewWithClient(&hc)
	if len(testPatterns) == 0 {
		testPatterns = DefaultTestPatterns
	}
	return &githubClientImpl{baseURL: apiBaseURL, token: token, patterns: testPatterns, client: client}
}

type githubClientImpl struct {
	baseURL  string
	token    string
	patterns []string
	client   *resty.Client
}

func (g *githubClientImpl) makeRequest(ctx context.Context) *resty.Request {
	req := g.client.R()
	req.SetContext(ctx)
	req.SetHeader("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.SetHeader("Authorization", "token "+g.token)
	}
	return req
}

type prResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	User   struct {
		Login string `json:"login"`
	} `json:"user"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Head struct {
		Ref string `json:"ref"`
	} `json:"head"`
}

type prFileResponse struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch"`
}

func (g *githubClientImpl) GetDiff(ctx context.Context, ref PRRef) (*models.DiffSummary, error) {
	resp, err := g.makeRequest(ctx).
		Get(fmt.Sprintf("%s/repos/%s/%s/pulls/%d", g.baseURL, ref.Owner, ref.Repo, ref.Number))
	if err != nil {
		return nil, fmt.Errorf("fetch PR %s: %w", ref, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch PR %s: status %d", ref, resp.StatusCode())
	}

	var pr prResponse
	if err := json.Unmarshal(resp.Body(), &pr); err != nil {
		return nil, fmt.Errorf("decode PR %s: %w", ref, err)
	}

	files, err := g.listFiles(ctx, ref)
	if err != nil {
		return nil, err
	}

	diff := &models.DiffSummary{
		Number:      pr.Number,
		Title:       pr.Title,
		Description: pr.Body,
		Author:      pr.User.Login,
		State:       pr.State,
		BaseBranch:  pr.Base.Ref,
		HeadBranch:  pr.Head.Ref,
		Files:       files,
	}

	log.Debugf("fetched PR %s: %d files, +%d/-%d", ref, len(files), diff.TotalAdditions(), diff.TotalDeletions())
	return diff, nil
}

func (g *githubClientImpl) listFiles(ctx context.Context, ref PRRef) ([]models.FileChange, error) {
	var files []models.FileChange

	for page := 1; ; page++ {
		req := g.makeRequest(ctx)
		req.SetQueryParam("per_page", "100")
		req.SetQueryParam("page", strconv.Itoa(page))

		resp, err := req.Get(fmt.Sprintf("%s/repos/%s/%s/pulls/%d/files", g.baseURL, ref.Owner, ref.Repo, ref.Number))
		if err != nil {
			return nil, fmt.Errorf("fetch PR files %s: %w", ref, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("fetch PR files %s: status %d", ref, resp.StatusCode())
		}

		var batch []prFileResponse
		if err := json.Unmarshal(resp.Body(), &batch); err != nil {
			return nil, fmt.Errorf("decode PR files %s: %w", ref, err)
		}

		for _, f := range batch {
			files = append(files, models.FileChange{
				Path:      f.Filename,
				Kind:      changeKind(f.Status),
				Additions: f.Additions,
				Deletions: f.Deletions,
				Patch:     f.Patch,
				IsTest:    IsTestFile(f.Filename, g.patterns),
			})
		}

		if len(batch) < 100 {
			return files, nil
		}
	}
}

// changeKind maps a GitHub file status to a ChangeKind. Renames and copies
// count as modifications.
func changeKind(status string) models.ChangeKind {
	switch status {
	case "added":
		return models.ChangeAdded
	case "removed":
		return models.ChangeRemoved
	default:
		return models.ChangeModified
	}
}
