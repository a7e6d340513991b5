// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package content holds the narrative sections shown beside the terminal and
// loads optional YAML overrides for sections and command outputs.
//
// A content file looks like:
//
//	sections:
//	  - id: about
//	    label: About
//	    command: about
//	    summary: Get the quick story and focus areas.
//	    content:
//	      - I build backend systems.
//	outputs:
//	  about:
//	    - type: heading
//	      text: About
//	    - type: text
//	      text: I build backend systems.
//
// Watch reloads the file when it changes on disk.
package content
