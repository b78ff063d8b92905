package views

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/itnihongo/kaiwa/internal/config"
)

const defaultGitHubAPI = "https://api.github.com"

// GitHubStore keeps the counts document in a repository through the contents API.
// Every increment is a commit; a conflicting sha is retried with a fresh read.
type GitHubStore struct {
	client   *resty.Client
	owner    string
	repo     string
	branch   string
	filePath string
	attempts uint
	delay    time.Duration
}

type contentsResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type committer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updateContentsRequest struct {
	Message   string    `json:"message"`
	Content   string    `json:"content"`
	Branch    string    `json:"branch"`
	SHA       string    `json:"sha,omitempty"`
	Committer committer `json:"committer"`
}

func NewGitHubStore(cfg config.GitHubConfig, timeout time.Duration) (*GitHubStore, error) {
	if cfg.Token == "" || cfg.Owner == "" || cfg.Repo == "" {
		return nil, ErrNotConfigured
	}
	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = defaultGitHubAPI
	}
	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}
	filePath := cfg.FilePath
	if filePath == "" {
		filePath = "data/views.json"
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	client.SetTimeout(timeout)
	client.SetHeader("Authorization", "Bearer "+cfg.Token)
	client.SetHeader("Accept", "application/vnd.github+json")
	client.SetHeader("User-Agent", "kaiwa-views")

	return &GitHubStore{
		client:   client,
		owner:    cfg.Owner,
		repo:     cfg.Repo,
		branch:   branch,
		filePath: strings.TrimPrefix(filePath, "/"),
		attempts: 3,
		delay:    250 * time.Millisecond,
	}, nil
}

func (s *GitHubStore) Close() error {
	return s.client.Close()
}

func (s *GitHubStore) contentsURL() string {
	return fmt.Sprintf("/repos/%s/%s/contents/%s", s.owner, s.repo, s.filePath)
}

func (s *GitHubStore) Get(ctx context.Context, id string) (int64, error) {
	counts, _, err := s.getFile(ctx)
	if err != nil {
		return 0, err
	}
	return counts[id], nil
}

func (s *GitHubStore) All(ctx context.Context) (map[string]int64, error) {
	counts, _, err := s.getFile(ctx)
	return counts, err
}

func (s *GitHubStore) Increment(ctx context.Context, id string) (int64, error) {
	var next int64
	err := retry.Do(
		func() error {
			counts, sha, err := s.getFile(ctx)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			counts[id]++
			if err := s.putFile(ctx, counts, sha); err != nil {
				slog.Default().Warn("views update rejected",
					slog.String("id", id),
					slog.Any("error", err),
				)
				return err
			}
			next = counts[id]
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return 0, err
	}
	return next, nil
}

// getFile returns the counts and the blob sha; a missing file is an empty map with no sha.
func (s *GitHubStore) getFile(ctx context.Context) (map[string]int64, string, error) {
	response, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("ref", s.branch).
		SetResult(&contentsResponse{}).
		Get(s.contentsURL())
	if err != nil {
		return nil, "", fmt.Errorf("client.Get > %w", err)
	}
	if response.StatusCode() == http.StatusNotFound {
		return map[string]int64{}, "", nil
	}
	if response.IsError() {
		return nil, "", fmt.Errorf("GH_GET %d: %s", response.StatusCode(), response.String())
	}

	body, ok := response.Result().(*contentsResponse)
	if !ok || body == nil {
		return map[string]int64{}, "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		slog.Default().Warn("views file is not valid base64", slog.Any("error", err))
		return map[string]int64{}, body.SHA, nil
	}
	return decodeCounts(raw), body.SHA, nil
}

func (s *GitHubStore) putFile(ctx context.Context, counts map[string]int64, sha string) error {
	data, err := encodeCounts(counts)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("encodeCounts() > %w", err))
	}
	response, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(updateContentsRequest{
			Message: "chore(views): update view count",
			Content: base64.StdEncoding.EncodeToString(data),
			Branch:  s.branch,
			SHA:     sha,
			Committer: committer{
				Name:  "kaiwa-bot",
				Email: "bot@example.com",
			},
		}).
		Put(s.contentsURL())
	if err != nil {
		return fmt.Errorf("client.Put > %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("GH_PUT %d: %s", response.StatusCode(), response.String())
	}
	return nil
}
