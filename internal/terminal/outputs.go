// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

// =============================================================================
// STATIC OUTPUTS
// =============================================================================

// Outputs maps command keys to their static output. Built-in commands
// (help, history, theme, clear) are resolved by the engine and are absent.
type Outputs map[string][]Line

// bannerArt is printed on startup and by the banner command.
var bannerArt = []string{
	"████████╗███████╗██████╗ ███╗   ███╗",
	"╚══██╔══╝██╔════╝██╔══██╗████╗ ████║",
	"   ██║   █████╗  ██████╔╝██╔████╔██║",
	"   ██║   ██╔══╝  ██╔══██╗██║╚██╔╝██║",
	"   ██║   ███████╗██║  ██║██║ ╚═╝ ██║",
	"   ╚═╝   ╚══════╝╚═╝  ╚═╝╚═╝     ╚═╝",
}

// DefaultOutputs returns the built-in portfolio content.
func DefaultOutputs() Outputs {
	banner := append(append([]string{}, bannerArt...), "", "Welcome to Ada Park's interactive workspace.")

	return Outputs{
		"banner": {
			ASCII{Lines: banner},
		},
		"welcome": {
			Text{Value: "Hi, I'm Ada. I build backend systems and the tools that keep them running.", Tone: ToneAccent},
			Text{Value: "Scroll through the showcase or switch to interactive mode to run every command yourself.", Tone: ToneMuted},
		},
		"about": {
			Heading{Value: "About"},
			Text{Value: "I'm Ada Park, a platform engineer who likes small services, boring deploys and honest dashboards."},
			Text{Value: "Most of my work sits between product teams and infrastructure: queues, caches, CLIs and the glue that makes them observable."},
			Text{Value: "Outside work I maintain a handful of terminal tools and write about distributed systems failure modes."},
		},
		"education": {
			Heading{Value: "Education"},
			Text{Value: "BSc Computer Science, Systems specialisation"},
			Text{Value: "Graduated 2019 · Vancouver, BC · Coursework in operating systems, networks and databases.", Tone: ToneMuted},
		},
		"skills": {
			Heading{Value: "Skills"},
			Columns{Columns: []Column{
				{Title: "Languages", Items: []string{"Go", "Python", "TypeScript", "SQL"}},
				{Title: "Infrastructure", Items: []string{"Kubernetes", "Terraform", "Nomad", "Linux"}},
				{Title: "Data", Items: []string{"PostgreSQL", "SQLite", "Redis", "Kafka"}},
				{Title: "Tooling", Items: []string{"Prometheus", "Grafana", "GitHub Actions", "Bubble Tea"}},
			}},
		},
		"experience": {
			Heading{Value: "Experience"},
			Text{Value: "Senior Platform Engineer · Northwind Logistics · 2022 - present", Tone: ToneAccent},
			List{Items: []string{
				"Rebuilt the shipment event pipeline on Kafka, cutting p99 ingest latency from 4s to 300ms.",
				"Introduced per-service SLOs and error budgets across 40 services.",
			}},
			Spacer{},
			Text{Value: "Backend Engineer · Lumen Health · 2019 - 2022", Tone: ToneAccent},
			List{Items: []string{
				"Owned the appointment scheduling API serving 2M requests per day.",
				"Wrote the internal CLI used by on-call engineers for database failovers.",
			}},
		},
		"projects": {
			Heading{Value: "Projects"},
			Text{Value: "termfolio · Go, Bubble Tea, SQLite", Tone: ToneAccent},
			Text{Value: "This portfolio as a terminal you can reach over SSH, HTTP or locally."},
			Link{Prefix: "repo:", Label: "github.com/adapark/termfolio", Href: "https://github.com/adapark/termfolio"},
			Spacer{},
			Text{Value: "queuectl · Go, Redis", Tone: ToneAccent},
			Text{Value: "Inspect and replay dead-lettered jobs from the command line."},
			Link{Prefix: "repo:", Label: "github.com/adapark/queuectl", Href: "https://github.com/adapark/queuectl"},
			Spacer{},
			Text{Value: "slo-report · Python, Prometheus", Tone: ToneAccent},
			Text{Value: "Weekly error budget reports generated from recording rules."},
			Link{Prefix: "repo:", Label: "github.com/adapark/slo-report", Href: "https://github.com/adapark/slo-report"},
		},
		"contact": {
			Heading{Value: "Contact"},
			Link{Prefix: "email:", Label: "ada@adapark.dev", Href: "mailto:ada@adapark.dev"},
			Link{Prefix: "github:", Label: "github.com/adapark", Href: "https://github.com/adapark"},
			Link{Prefix: "linkedin:", Label: "linkedin.com/in/adapark", Href: "https://www.linkedin.com/in/adapark"},
			Text{Value: "Based in Vancouver, BC. Open to remote roles.", Tone: ToneMuted},
		},
	}
}
