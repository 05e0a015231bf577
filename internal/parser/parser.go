package parser

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tslkit/tslkit/internal/model"
)

// choice branch sections, in the order annotations may introduce them.
const (
	sectionBase = iota
	sectionIf
	sectionElse
)

// rawChoice is a choice as read from the source, before property interning
// and expression parsing.
type rawChoice struct {
	name string
	line int

	props    [3][]string // property names per section
	frames   [3]model.FrameType
	frameSet [3]bool
	ifSrc    string
	ifLine   int
	hasIf    bool
	hasElse  bool
	section  int
}

type rawCategory struct {
	name    string
	line    int
	choices []*rawChoice
}

// ParseFile reads and parses a specification file. The specification name is
// the file's base name without extension.
func ParseFile(path string) (*model.Specification, []string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read specification: %w", err)
	}
	spec, warnings, err := Parse(src, path)
	if err != nil {
		return nil, warnings, err
	}
	spec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return spec, warnings, nil
}

// Parse parses specification source. filename is used in error positions
// only. It returns the validated graph plus warnings for dropped empty
// categories, or the first error encountered.
func Parse(src []byte, filename string) (*model.Specification, []string, error) {
	cats, warnings, err := scan(src, filename)
	if err != nil {
		return nil, warnings, err
	}

	spec, err := build(cats, filename)
	if err != nil {
		return nil, warnings, err
	}
	return spec, warnings, nil
}

// scan performs the line-level pass: category headers, choice names, and
// annotation parsing. Property and expression resolution happen in build.
func scan(src []byte, filename string) ([]*rawCategory, []string, error) {
	var (
		cats     []*rawCategory
		current  *rawCategory
		warnings []string
	)

	flush := func() {
		if current == nil {
			return
		}
		if len(current.choices) == 0 {
			warnings = append(warnings,
				fmt.Sprintf("dropped empty category %q (line %d)", current.name, current.line))
		} else {
			cats = append(cats, current)
		}
		current = nil
	}

	for lineNo, rawLine := range strings.Split(string(src), "\n") {
		line := rawLine
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lineNum := lineNo + 1

		// Category header: a line ending in ':' with no annotations.
		if strings.HasSuffix(line, ":") && !strings.Contains(line, "[") {
			flush()
			name := strings.TrimSpace(strings.TrimSuffix(line, ":"))
			if name == "" {
				return nil, warnings, errorf(filename, lineNum, "category header has no name")
			}
			current = &rawCategory{name: model.NormalizeName(name), line: lineNum}
			continue
		}

		if current == nil {
			return nil, warnings, errorf(filename, lineNum, "choice outside any category")
		}

		ch, err := scanChoice(line, filename, lineNum)
		if err != nil {
			return nil, warnings, err
		}
		current.choices = append(current.choices, ch)
	}
	flush()

	return cats, warnings, nil
}

// scanChoice parses one choice line: "name. [annotation] [annotation]".
func scanChoice(line, filename string, lineNum int) (*rawChoice, error) {
	namePart := line
	rest := ""
	if idx := strings.IndexByte(line, '['); idx >= 0 {
		namePart, rest = line[:idx], line[idx:]
	}

	namePart = strings.TrimSpace(namePart)
	if !strings.HasSuffix(namePart, ".") {
		return nil, errorf(filename, lineNum, "choice %q must end with '.'", namePart)
	}
	name := strings.TrimSpace(strings.TrimSuffix(namePart, "."))
	if name == "" {
		return nil, errorf(filename, lineNum, "choice has no name")
	}

	ch := &rawChoice{name: model.NormalizeName(name), line: lineNum}

	for rest != "" {
		if rest[0] != '[' {
			return nil, errorf(filename, lineNum, "unexpected text %q between annotations", rest)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, errorf(filename, lineNum, "unmatched '[' in annotations")
		}
		body := strings.TrimSpace(rest[1:end])
		rest = strings.TrimSpace(rest[end+1:])

		if err := ch.applyAnnotation(body, filename, lineNum); err != nil {
			return nil, err
		}
	}

	return ch, nil
}

// applyAnnotation dispatches one bracketed annotation against the choice's
// current section.
func (ch *rawChoice) applyAnnotation(body, filename string, lineNum int) error {
	keyword, arg, _ := strings.Cut(body, " ")
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	arg = strings.TrimSpace(arg)

	switch keyword {
	case "property":
		if arg == "" {
			return errorf(filename, lineNum, "[property] names no properties")
		}
		for _, name := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			ch.props[ch.section] = append(ch.props[ch.section], model.NormalizeName(name))
		}

	case "single", "error":
		if arg != "" {
			return errorf(filename, lineNum, "[%s] takes no argument", keyword)
		}
		if ch.frameSet[ch.section] {
			return errorf(filename, lineNum, "duplicate frame marker [%s]", keyword)
		}
		ch.frameSet[ch.section] = true
		if keyword == "single" {
			ch.frames[ch.section] = model.FrameSingle
		} else {
			ch.frames[ch.section] = model.FrameError
		}

	case "if":
		if ch.hasIf {
			return errorf(filename, lineNum, "duplicate [if] on choice %q", ch.name)
		}
		if arg == "" {
			return errorf(filename, lineNum, "[if] has no expression")
		}
		ch.hasIf = true
		ch.ifSrc = arg
		ch.ifLine = lineNum
		ch.section = sectionIf

	case "else":
		if arg != "" {
			return errorf(filename, lineNum, "[else] takes no argument")
		}
		if !ch.hasIf {
			return errorf(filename, lineNum, "[else] without a preceding [if]")
		}
		if ch.hasElse {
			return errorf(filename, lineNum, "duplicate [else] on choice %q", ch.name)
		}
		ch.hasElse = true
		ch.section = sectionElse

	default:
		return errorf(filename, lineNum, "unknown constraint keyword %q", keyword)
	}

	return nil
}

// build interns properties (first pass over every [property] annotation, so
// constraints may reference later definitions), then assembles the model
// graph and parses constraint expressions against the full table.
func build(cats []*rawCategory, filename string) (*model.Specification, error) {
	table := model.NewTable()
	for _, cat := range cats {
		for _, ch := range cat.choices {
			for _, section := range ch.props {
				for _, name := range section {
					table.Intern(name)
				}
			}
		}
	}

	resolve := func(name string) (*model.Property, error) {
		p, ok := table.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("undefined property %q", name)
		}
		return p, nil
	}

	spec := &model.Specification{Properties: table}
	for _, rawCat := range cats {
		cat := &model.Category{Name: rawCat.name}
		for _, raw := range rawCat.choices {
			ch := &model.Choice{
				Name:    raw.name,
				Frame:   raw.frames[sectionBase],
				HasElse: raw.hasElse,
			}

			ch.Properties = internAll(table, raw.props[sectionBase])

			if raw.hasIf {
				expr, err := ParseExpr(raw.ifSrc, resolve)
				if err != nil {
					return nil, errorf(filename, raw.ifLine, "constraint on choice %q: %v", raw.name, err)
				}
				ch.If = expr
				ch.IfProperties = internAll(table, raw.props[sectionIf])
				ch.ElseProperties = internAll(table, raw.props[sectionElse])
				ch.IfFrame = raw.frames[sectionIf]
				ch.ElseFrame = raw.frames[sectionElse]
			}

			cat.Choices = append(cat.Choices, ch)
		}
		spec.Categories = append(spec.Categories, cat)
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("specification %s: %w", filename, err)
	}

	slog.Debug("specification parsed",
		"file", filename,
		"categories", len(spec.Categories),
		"choices", spec.ChoiceCount(),
		"properties", table.Len(),
	)

	return spec, nil
}

func internAll(table *model.Table, names []string) []*model.Property {
	props := make([]*model.Property, len(names))
	for i, name := range names {
		props[i] = table.Intern(name)
	}
	return props
}
