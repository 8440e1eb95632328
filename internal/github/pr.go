// Package github provides a GitHub client with functions tailored to
// the first-party sets list's needs: fetching the canonical submission
// list at a commit, and the before/after states of a pull request.
package github

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/go-github/v63/github"
)

// SubmissionFile is the path of the canonical submission list within
// the repository.
const SubmissionFile = "first_party_sets.json"

// Client is a GitHub API client for the submission list repository.
// The zero value queries the official repository.
type Client struct {
	// Owner is the github account of the repository to query. If
	// empty, defaults to "firstpartysets".
	Owner string
	// Repo is the repository to query. If empty, defaults to "list".
	Repo string

	client *github.Client
}

func (c *Client) owner() string {
	if c.Owner != "" {
		return c.Owner
	}
	return "firstpartysets"
}

func (c *Client) repo() string {
	if c.Repo != "" {
		return c.Repo
	}
	return "list"
}

func (c *Client) apiClient() *github.Client {
	if c.client == nil {
		c.client = github.NewClient(nil)
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			c.client = c.client.WithAuthToken(token)
		}
	}
	return c.client
}

// SubmissionForPullRequest fetches the submission lists needed to
// validate the given pull request: the list on the target branch, and
// the same list with the PR's changes applied.
func (c *Client) SubmissionForPullRequest(ctx context.Context, prNum int) (withoutPR, withPR []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pr, _, err := c.apiClient().PullRequests.Get(ctx, c.owner(), c.repo(), prNum)
	if err != nil {
		return nil, nil, err
	}

	mergeCommit := pr.GetMergeCommitSHA()
	if mergeCommit == "" {
		return nil, nil, fmt.Errorf("no merge commit available for PR %d", prNum)
	}
	commitInfo, _, err := c.apiClient().Git.GetCommit(ctx, c.owner(), c.repo(), mergeCommit)
	if err != nil {
		return nil, nil, fmt.Errorf("getting info for trial merge SHA %q: %w", mergeCommit, err)
	}

	var beforeMergeCommit string
	if pr.GetMerged() && len(commitInfo.Parents) == 1 {
		// Merged via squash-and-merge, so the pre-PR state is the
		// parent of the merge commit.
		beforeMergeCommit = commitInfo.Parents[0].GetSHA()
	} else if !pr.GetMergeable() {
		return nil, nil, fmt.Errorf("cannot get submission list for PR %d, needs rebase", prNum)
	} else {
		// The PR is open, so the merge commit is a trial merge with
		// two parents: the PR head, and the target branch without the
		// PR's changes.
		if numParents := len(commitInfo.Parents); numParents != 2 {
			return nil, nil, fmt.Errorf("unexpected parent count %d for trial merge commit on PR %d, expected 2 parents", numParents, prNum)
		}

		prHeadCommit := pr.GetHead().GetSHA()
		if prHeadCommit == "" {
			return nil, nil, fmt.Errorf("no commit SHA available for head of PR %d", prNum)
		}
		if commitInfo.Parents[0].GetSHA() == prHeadCommit {
			beforeMergeCommit = commitInfo.Parents[1].GetSHA()
		} else {
			beforeMergeCommit = commitInfo.Parents[0].GetSHA()
		}
	}

	withoutPR, err = c.SubmissionForHash(ctx, beforeMergeCommit)
	if err != nil {
		return nil, nil, err
	}
	withPR, err = c.SubmissionForHash(ctx, mergeCommit)
	if err != nil {
		return nil, nil, err
	}
	return withoutPR, withPR, nil
}

// SubmissionForHash returns the submission list at the given git
// commit hash.
func (c *Client) SubmissionForHash(ctx context.Context, hash string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := &github.RepositoryContentGetOptions{
		Ref: hash,
	}
	content, _, _, err := c.apiClient().Repositories.GetContents(ctx, c.owner(), c.repo(), SubmissionFile, opts)
	if err != nil {
		return nil, fmt.Errorf("getting submission list for commit %q: %w", hash, err)
	}
	ret, err := content.GetContent()
	if err != nil {
		return nil, err
	}
	return []byte(ret), nil
}
