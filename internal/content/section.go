// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package content

import "strings"

// =============================================================================
// SECTION DESCRIPTORS
// =============================================================================

// Section is one narrative block. Its Command is auto-played the first time
// the section scrolls into view.
type Section struct {
	ID      string `json:"id" yaml:"id"`
	Label   string `json:"label" yaml:"label"`
	Command string `json:"command" yaml:"command"`
	Summary string `json:"summary" yaml:"summary"`

	Content      []string        `json:"content,omitempty" yaml:"content,omitempty"`
	IconGroups   []IconGroup     `json:"iconGroups,omitempty" yaml:"iconGroups,omitempty"`
	Projects     []Project       `json:"projects,omitempty" yaml:"projects,omitempty"`
	Timeline     []TimelineEntry `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	ContactLinks []ContactLink   `json:"contactLinks,omitempty" yaml:"contactLinks,omitempty"`
}

// IconGroup is a titled group of skill badges.
type IconGroup struct {
	Title string   `json:"title" yaml:"title"`
	Items []string `json:"items" yaml:"items"`
}

// Project is a project card.
type Project struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Stack       []string `json:"stack" yaml:"stack"`
	RepoURL     string   `json:"repoUrl" yaml:"repoUrl"`
	LiveURL     string   `json:"liveUrl,omitempty" yaml:"liveUrl,omitempty"`
}

// TimelineEntry is one role in the experience timeline.
type TimelineEntry struct {
	Company    string   `json:"company" yaml:"company"`
	CompanyURL string   `json:"companyUrl,omitempty" yaml:"companyUrl,omitempty"`
	Role       string   `json:"role" yaml:"role"`
	Duration   string   `json:"duration" yaml:"duration"`
	Location   string   `json:"location" yaml:"location"`
	Details    []string `json:"details" yaml:"details"`
	IsCurrent  bool     `json:"isCurrent,omitempty" yaml:"isCurrent,omitempty"`
}

// ContactLink is a labelled contact method.
type ContactLink struct {
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href,omitempty" yaml:"href,omitempty"`
	Icon  string `json:"icon" yaml:"icon"`
}

// DefaultSections returns the built-in sections in scroll order.
func DefaultSections() []Section {
	return []Section{
		{
			ID: "about", Label: "About", Command: "about",
			Summary: "Get the quick story and focus areas.",
			Content: []string{
				"Platform engineer working on small services, boring deploys and honest dashboards.",
				"Most of my time goes into queues, caches, CLIs and making them observable.",
			},
		},
		{
			ID: "skills", Label: "Skills", Command: "skills",
			Summary: "See the grouped stack and tooling.",
			IconGroups: []IconGroup{
				{Title: "Languages", Items: []string{"Go", "Python", "TypeScript", "SQL"}},
				{Title: "Infrastructure", Items: []string{"Kubernetes", "Terraform", "Nomad", "Linux"}},
				{Title: "Data", Items: []string{"PostgreSQL", "SQLite", "Redis", "Kafka"}},
				{Title: "Tooling", Items: []string{"Prometheus", "Grafana", "GitHub Actions", "Bubble Tea"}},
			},
		},
		{
			ID: "experience", Label: "Experience", Command: "experience",
			Summary: "Chronological roles and highlights.",
			Timeline: []TimelineEntry{
				{
					Company: "Northwind Logistics", Role: "Senior Platform Engineer",
					Duration: "2022 - present", Location: "Remote", IsCurrent: true,
					Details: []string{
						"Rebuilt the shipment event pipeline on Kafka.",
						"Introduced per-service SLOs and error budgets.",
					},
				},
				{
					Company: "Lumen Health", Role: "Backend Engineer",
					Duration: "2019 - 2022", Location: "Vancouver, BC",
					Details: []string{
						"Owned the appointment scheduling API.",
						"Wrote the on-call failover CLI.",
					},
				},
			},
		},
		{
			ID: "projects", Label: "Projects", Command: "projects",
			Summary: "Selected builds with stack and links.",
			Projects: []Project{
				{
					Name: "termfolio", Description: "This portfolio as a terminal over SSH, HTTP or locally.",
					Stack: []string{"Go", "Bubble Tea", "SQLite"}, RepoURL: "https://github.com/adapark/termfolio",
				},
				{
					Name: "queuectl", Description: "Inspect and replay dead-lettered jobs.",
					Stack: []string{"Go", "Redis"}, RepoURL: "https://github.com/adapark/queuectl",
				},
				{
					Name: "slo-report", Description: "Weekly error budget reports from recording rules.",
					Stack: []string{"Python", "Prometheus"}, RepoURL: "https://github.com/adapark/slo-report",
				},
			},
		},
		{
			ID: "contact", Label: "Contact", Command: "contact",
			Summary: "Reach out via email or socials.",
			ContactLinks: []ContactLink{
				{Label: "ada@adapark.dev", Href: "mailto:ada@adapark.dev", Icon: "email"},
				{Label: "github.com/adapark", Href: "https://github.com/adapark", Icon: "github"},
				{Label: "linkedin.com/in/adapark", Href: "https://www.linkedin.com/in/adapark", Icon: "linkedin"},
				{Label: "Vancouver, BC", Icon: "location"},
			},
		},
	}
}

// Body returns the section's descriptive text as plain rows.
func (s Section) Body() []string {
	rows := append([]string{}, s.Content...)
	for _, g := range s.IconGroups {
		rows = append(rows, g.Title+": "+strings.Join(g.Items, ", "))
	}
	for _, t := range s.Timeline {
		rows = append(rows, t.Role+" · "+t.Company+" · "+t.Duration)
		for _, d := range t.Details {
			rows = append(rows, "  "+d)
		}
	}
	for _, p := range s.Projects {
		rows = append(rows, p.Name+" ("+strings.Join(p.Stack, ", ")+")")
		rows = append(rows, "  "+p.Description)
	}
	for _, c := range s.ContactLinks {
		rows = append(rows, c.Icon+": "+c.Label)
	}
	return rows
}
