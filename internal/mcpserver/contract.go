package mcpserver

// NoteFormatContract describes the Markdown note format the note graph
// derives its metadata from.
const NoteFormatContract = `# Note Format Contract

Notes are Markdown. Metadata is derived from the content on every save.

## Structure

` + "```" + `markdown
---
title: Human-readable title    # OPTIONAL – used when no title is given
type: meeting                  # OPTIONAL – note | project | person | meeting | daily
tags: [project-x, dev/backend] # OPTIONAL – flow list or YAML block list
---

# Heading

Body text with #inline-tags, [[Other Note]] and [[Other Note|display text]].

- [ ] pending task
- [x] done task
- [>] deferred task
- [-] cancelled task
` + "```" + `

## Rules

1. **Frontmatter** must start on the first line, fenced by ` + "`---`" + ` lines.
2. **Title**: the explicit title wins, then frontmatter ` + "`title`" + `, then the first
   ` + "`# `" + ` heading.
3. **Type** must be one of the listed values; anything else is ignored and the
   note keeps its current type (new notes default to ` + "`note`" + `).
4. **Tags** use letters, digits, ` + "`_`" + `, ` + "`-`" + ` and ` + "`/`" + `. A ` + "`/`" + ` builds a
   hierarchy: ` + "`dev/frontend`" + ` sits under ` + "`dev`" + `.
5. **Wikilinks** reference other notes by exact title and may not span lines.
   Escape with a backslash (` + "`\\[[not a link]]`" + `) to keep literal brackets.
6. **Tasks** are one line each. The text stops at the end of the first
   sentence or before the first capitalized word, capped at 200 characters.
7. **Renaming** a note rewrites every ` + "`[[Old]]`" + ` and ` + "`[[Old|alias]]`" + ` to the new
   title, so prefer exact titles over paraphrases.

## Example

` + "```" + `markdown
---
type: meeting
tags: [meeting-notes, project-x]
---

# Weekly standup 2025-01-20

Attendees: [[Alice]], [[Bob]].

- [ ] Alice to review the [[Design Doc|design doc]]
- [x] Bob shipped the release
` + "```" + `
`
