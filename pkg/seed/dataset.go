// Package seed loads demo data into a fresh database through the services,
// so the activity log reads the same as it would after real use.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

//go:embed demo.yaml
var demoYAML []byte

// Dataset is the YAML document describing seed data.
type Dataset struct {
	Users    []User    `yaml:"users"`
	Projects []Project `yaml:"projects"`
}

// User is an account to register. Influencers name their manager by username.
type User struct {
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	Name     string   `yaml:"name"`
	Email    *string  `yaml:"email"`
	Role     string   `yaml:"role"`
	Manager  string   `yaml:"manager"`
	Profile  *Profile `yaml:"profile"`
}

// Profile holds the influencer profile fields set after registration.
type Profile struct {
	Nickname           string  `yaml:"nickname"`
	Bio                *string `yaml:"bio"`
	InstagramHandle    *string `yaml:"instagram_handle"`
	InstagramFollowers *int    `yaml:"instagram_followers"`
	TiktokHandle       *string `yaml:"tiktok_handle"`
	TiktokFollowers    *int    `yaml:"tiktok_followers"`
	YoutubeHandle      *string `yaml:"youtube_handle"`
	YoutubeFollowers   *int    `yaml:"youtube_followers"`
	TelegramHandle     *string `yaml:"telegram_handle"`
	TelegramFollowers  *int    `yaml:"telegram_followers"`
	VKHandle           *string `yaml:"vk_handle"`
	VKFollowers        *int    `yaml:"vk_followers"`
}

func (p *Profile) patch() *models.InfluencerPatch {
	return &models.InfluencerPatch{
		Bio:                p.Bio,
		InstagramHandle:    p.InstagramHandle,
		InstagramFollowers: p.InstagramFollowers,
		TiktokHandle:       p.TiktokHandle,
		TiktokFollowers:    p.TiktokFollowers,
		YoutubeHandle:      p.YoutubeHandle,
		YoutubeFollowers:   p.YoutubeFollowers,
		TelegramHandle:     p.TelegramHandle,
		TelegramFollowers:  p.TelegramFollowers,
		VKHandle:           p.VKHandle,
		VKFollowers:        p.VKFollowers,
	}
}

// Project is a campaign with its nested assignments, deliverables and comments.
type Project struct {
	Title          string          `yaml:"title"`
	Client         string          `yaml:"client"`
	Manager        string          `yaml:"manager"`
	Description    *string         `yaml:"description"`
	Budget         *int64          `yaml:"budget"`
	Erid           *string         `yaml:"erid"`
	DeadlineInDays int             `yaml:"deadline_in_days"`
	Status         string          `yaml:"status"`
	WorkflowStage  string          `yaml:"workflow_stage"`
	Platforms      []string        `yaml:"platforms"`
	TechnicalLinks []TechnicalLink `yaml:"technical_links"`
	Influencers    []Assignment    `yaml:"influencers"`
	Scenarios      []Scenario      `yaml:"scenarios"`
	Materials      []Material      `yaml:"materials"`
	Publications   []Publication   `yaml:"publications"`
	Comments       []Comment       `yaml:"comments"`
}

// TechnicalLink mirrors models.TechnicalLink with YAML tags.
type TechnicalLink struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// Assignment links an influencer (by nickname) to the project.
type Assignment struct {
	Nickname          string  `yaml:"nickname"`
	ScenarioStatus    *string `yaml:"scenario_status"`
	MaterialStatus    *string `yaml:"material_status"`
	PublicationStatus *string `yaml:"publication_status"`
}

// Scenario is a script submitted by an influencer.
type Scenario struct {
	Influencer   string  `yaml:"influencer"`
	Content      string  `yaml:"content"`
	GoogleDocURL *string `yaml:"google_doc_url"`
	Status       string  `yaml:"status"`
}

// Material is produced content submitted for review.
type Material struct {
	Influencer     string  `yaml:"influencer"`
	MaterialURL    string  `yaml:"material_url"`
	GoogleDriveURL *string `yaml:"google_drive_url"`
	Description    *string `yaml:"description"`
	Status         string  `yaml:"status"`
}

// Publication is a published post.
type Publication struct {
	Influencer     string  `yaml:"influencer"`
	Platform       string  `yaml:"platform"`
	PublicationURL string  `yaml:"publication_url"`
	Content        *string `yaml:"content"`
	Status         string  `yaml:"status"`
}

// Comment is a note by the user named Author.
type Comment struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
}

// Demo returns the embedded demo dataset.
func Demo() (*Dataset, error) {
	return Parse(demoYAML)
}

// Parse decodes and checks a dataset. Cross-references (managers, authors,
// nicknames) must name entries defined in the same document.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	if err := ds.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed data: %w", err)
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	roles := make(map[string]string, len(ds.Users))
	nicknames := make(map[string]bool)
	for _, u := range ds.Users {
		if u.Username == "" {
			return fmt.Errorf("user without username")
		}
		if _, dup := roles[u.Username]; dup {
			return fmt.Errorf("duplicate user %q", u.Username)
		}
		roles[u.Username] = u.Role
		if u.Role == models.RoleInfluencer {
			nicknames[u.nickname()] = true
		}
	}

	for _, u := range ds.Users {
		if u.Role != models.RoleInfluencer {
			continue
		}
		if roles[u.Manager] != models.RoleManager {
			return fmt.Errorf("user %q: manager %q is not a manager in the dataset", u.Username, u.Manager)
		}
	}

	for _, p := range ds.Projects {
		if roles[p.Manager] != models.RoleManager {
			return fmt.Errorf("project %q: manager %q is not a manager in the dataset", p.Title, p.Manager)
		}
		if p.WorkflowStage != "" && !models.IsValidStage(p.WorkflowStage) {
			return fmt.Errorf("project %q: unknown workflow stage %q", p.Title, p.WorkflowStage)
		}
		for _, a := range p.Influencers {
			if !nicknames[a.Nickname] {
				return fmt.Errorf("project %q: unknown influencer %q", p.Title, a.Nickname)
			}
		}
		for _, ref := range p.influencerRefs() {
			if !nicknames[ref] {
				return fmt.Errorf("project %q: unknown influencer %q", p.Title, ref)
			}
		}
		for _, c := range p.Comments {
			if _, ok := roles[c.Author]; !ok {
				return fmt.Errorf("project %q: unknown comment author %q", p.Title, c.Author)
			}
		}
	}
	return nil
}

func (u User) nickname() string {
	if u.Profile != nil && u.Profile.Nickname != "" {
		return u.Profile.Nickname
	}
	return u.Username
}

func (p Project) influencerRefs() []string {
	var refs []string
	for _, s := range p.Scenarios {
		refs = append(refs, s.Influencer)
	}
	for _, m := range p.Materials {
		refs = append(refs, m.Influencer)
	}
	for _, pub := range p.Publications {
		refs = append(refs, pub.Influencer)
	}
	return refs
}
