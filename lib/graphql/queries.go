package graphql

import (
	"fmt"
	"sort"
	"strings"
)

// CommonQueries are pre-built queries for frequent lookups, keyed by name.
var CommonQueries = map[string]string{
	"current_user": `
		query {
			currentUser {
				id
				username
				name
				email
				publicEmail
				state
				webUrl
				avatarUrl
			}
		}
	`,
	"project_details": `
		query($path: ID!) {
			project(fullPath: $path) {
				id
				name
				description
				visibility
				webUrl
				sshUrlToRepo
				httpUrlToRepo
				starCount
				forksCount
				statistics {
					commitCount
					storageSize
					repositorySize
					wikiSize
					lfsObjectsSize
				}
				languages {
					name
					share
				}
			}
		}
	`,
	"merge_request_details": `
		query($projectPath: ID!, $iid: String!) {
			project(fullPath: $projectPath) {
				mergeRequest(iid: $iid) {
					id
					iid
					title
					description
					state
					createdAt
					updatedAt
					mergedAt
					author {
						username
						name
					}
					assignees {
						nodes {
							username
							name
						}
					}
					reviewers {
						nodes {
							username
							name
						}
					}
					approvedBy {
						nodes {
							username
							name
						}
					}
					sourceBranch
					targetBranch
					conflicts
					mergeable
					workInProgress
					diffStatsSummary {
						additions
						deletions
						changes
					}
				}
			}
		}
	`,
	"issue_details": `
		query($projectPath: ID!, $iid: String!) {
			project(fullPath: $projectPath) {
				issue(iid: $iid) {
					id
					iid
					title
					description
					state
					createdAt
					updatedAt
					closedAt
					author {
						username
						name
					}
					assignees {
						nodes {
							username
							name
						}
					}
					labels {
						nodes {
							title
							color
						}
					}
					milestone {
						title
						dueDate
					}
					webUrl
				}
			}
		}
	`,
	"pipeline_status": `
		query($projectPath: ID!, $sha: String!) {
			project(fullPath: $projectPath) {
				pipelines(sha: $sha, first: 1) {
					nodes {
						id
						iid
						status
						createdAt
						updatedAt
						duration
						coverage
						user {
							username
							name
						}
						stages {
							nodes {
								name
								status
							}
						}
					}
				}
			}
		}
	`,
}

// CommonQuery looks up a pre-built query by name. The error lists the
// available names so a tool caller can self-correct.
func CommonQuery(name string) (string, error) {
	q, ok := CommonQueries[name]
	if !ok {
		names := make([]string, 0, len(CommonQueries))
		for n := range CommonQueries {
			names = append(names, n)
		}
		sort.Strings(names)

		return "", fmt.Errorf("unknown query %q, available: %s", name, strings.Join(names, ", "))
	}

	return q, nil
}
