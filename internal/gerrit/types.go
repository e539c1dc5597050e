package gerrit

import (
	"fmt"
	"strconv"
	"strings"
)

// AccountInfo identifies a Gerrit account.
type AccountInfo struct {
	AccountID int    `json:"_account_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// RevisionInfo is one patchset of a change.
type RevisionInfo struct {
	Number int    `json:"_number"`
	Ref    string `json:"ref"`
}

// ChangeInfo is the raw change object returned by /changes/ queries.
type ChangeInfo struct {
	Number          int                     `json:"_number"`
	ID              string                  `json:"id"`
	ChangeID        string                  `json:"change_id"`
	Project         string                  `json:"project"`
	Branch          string                  `json:"branch"`
	Topic           string                  `json:"topic"`
	Hashtags        []string                `json:"hashtags"`
	Subject         string                  `json:"subject"`
	Status          string                  `json:"status"`
	Created         string                  `json:"created"`
	Updated         string                  `json:"updated"`
	Submitted       string                  `json:"submitted"`
	Submittable     bool                    `json:"submittable"`
	Insertions      int                     `json:"insertions"`
	Deletions       int                     `json:"deletions"`
	Owner           *AccountInfo            `json:"owner"`
	CurrentRevision string                  `json:"current_revision"`
	Revisions       map[string]RevisionInfo `json:"revisions"`
	MoreChanges     bool                    `json:"_more_changes"`
}

// Change is the flattened, display-ready form of a ChangeInfo, with the
// local fields (number, patchset, ref, host, url) filled in.
type Change struct {
	Number      int
	Hash        string // current revision commit id
	Patchset    int
	Ref         string
	LocalRef    string
	Host        string
	URL         string
	Branch      string
	ChangeID    string
	Created     string
	Updated     string
	Submitted   string
	Deletions   int
	Insertions  int
	Hashtags    string // comma-joined
	ID          string
	Owner       string // account id, or "Unknown"
	Project     string
	Status      string
	Subject     string
	Submittable bool
	Topic       string

	// Detail carries the /changes/<id>/detail payload when requested.
	Detail map[string]any
}

// Flatten converts a raw change to its display form. remote is the local
// remote name used to derive localref from the upload ref.
func Flatten(ci *ChangeInfo, host, remote string) *Change {
	c := &Change{
		Number:      ci.Number,
		Hash:        ci.CurrentRevision,
		Host:        host,
		URL:         fmt.Sprintf("https://%s/%d", host, ci.Number),
		Branch:      ci.Branch,
		ChangeID:    ci.ChangeID,
		Created:     ci.Created,
		Updated:     ci.Updated,
		Submitted:   ci.Submitted,
		Deletions:   ci.Deletions,
		Insertions:  ci.Insertions,
		Hashtags:    strings.Join(ci.Hashtags, ","),
		ID:          ci.ID,
		Project:     ci.Project,
		Status:      ci.Status,
		Subject:     ci.Subject,
		Submittable: ci.Submittable,
		Topic:       ci.Topic,
		Owner:       "Unknown",
	}
	if ci.Owner != nil && ci.Owner.AccountID != 0 {
		c.Owner = strconv.Itoa(ci.Owner.AccountID)
	}
	if c.Topic == "" {
		c.Topic = "no-topic"
	}
	if rev, ok := ci.Revisions[ci.CurrentRevision]; ok {
		c.Patchset = rev.Number
		c.Ref = rev.Ref
		c.LocalRef = strings.Replace(rev.Ref, "refs/", remote+"/", 1)
	}
	return c
}

// Fields returns the change as a template field map covering the full
// CHANGE_FIELDS set, with blanks for absent optional fields.
func (c *Change) Fields() map[string]string {
	return map[string]string{
		"branch":           c.Branch,
		"change_id":        c.ChangeID,
		"created":          c.Created,
		"current_revision": c.Hash,
		"deletions":        strconv.Itoa(c.Deletions),
		"hashtags":         c.Hashtags,
		"id":               c.ID,
		"insertions":       strconv.Itoa(c.Insertions),
		"owner":            c.Owner,
		"project":          c.Project,
		"status":           c.Status,
		"subject":          c.Subject,
		"submittable":      strconv.FormatBool(c.Submittable),
		"submitted":        c.Submitted,
		"topic":            c.Topic,
		"updated":          c.Updated,
		"number":           strconv.Itoa(c.Number),
		"patchset":         strconv.Itoa(c.Patchset),
		"ref":              c.Ref,
		"localref":         c.LocalRef,
		"hash":             c.Hash,
		"host":             c.Host,
		"url":              c.URL,
	}
}
