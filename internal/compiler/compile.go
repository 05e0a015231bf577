// Package compiler loads category-partition specifications written in CUE.
//
// It is the structured alternative to the text format in internal/parser:
// a top-level "specification" struct carrying categories and choices, with
// constraint expressions embedded as strings and compiled by the shared
// expression parser.
//
//	specification: {
//		name: "find"
//		categories: [{
//			name: "Size"
//			choices: [
//				{name: "Empty", properties: ["emptyfile"]},
//				{name: "NotEmpty"},
//			]
//		}, {
//			name: "Count"
//			choices: [
//				{name: "None", condition: "!emptyfile", ifProperties: ["noOcc"]},
//			]
//		}]
//	}
//
// Choice fields: name (required), properties, frame ("normal" | "single" |
// "error"), condition, ifProperties, ifFrame, hasElse, elseProperties,
// elseFrame. Branch fields are only allowed alongside condition.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/tslkit/tslkit/internal/model"
	"github.com/tslkit/tslkit/internal/parser"
)

// CompileError reports a problem in a CUE specification, with CUE token
// position when available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// rawChoice mirrors the CUE choice fields before interning and expression
// parsing; compile resolves names in a second pass so conditions may
// reference properties defined later in the file.
type rawChoice struct {
	name      string
	props     []string
	frame     model.FrameType
	condition string
	condPos   token.Pos
	ifProps   []string
	ifFrame   model.FrameType
	hasElse   bool
	elseProps []string
	elseFrame model.FrameType
}

type rawCategory struct {
	name    string
	pos     token.Pos
	choices []rawChoice
}

// CompileFile reads and compiles a CUE specification file. Like the text
// parser it returns warnings for dropped empty categories.
func CompileFile(path string) (*model.Specification, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read specification: %w", err)
	}

	spec, warnings, err := Compile(data, path)
	if err != nil {
		return nil, warnings, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return spec, warnings, nil
}

// Compile compiles CUE specification source. filename positions diagnostics.
func Compile(src []byte, filename string) (*model.Specification, []string, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, nil, formatCUEError(err)
	}
	return CompileValue(v)
}

// CompileValue compiles an already-built CUE value holding a top-level
// "specification" struct.
func CompileValue(v cue.Value) (*model.Specification, []string, error) {
	specVal := v.LookupPath(cue.ParsePath("specification"))
	if !specVal.Exists() {
		return nil, nil, &CompileError{
			Field:   "specification",
			Message: "top-level specification struct is required",
			Pos:     v.Pos(),
		}
	}

	name := ""
	if nameVal := specVal.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		s, err := nameVal.String()
		if err != nil {
			return nil, nil, formatCUEError(err)
		}
		name = s
	}

	cats, warnings, err := parseCategories(specVal)
	if err != nil {
		return nil, warnings, err
	}

	spec, err := build(name, cats)
	if err != nil {
		return nil, warnings, err
	}
	return spec, warnings, nil
}

func parseCategories(specVal cue.Value) ([]rawCategory, []string, error) {
	catsVal := specVal.LookupPath(cue.ParsePath("categories"))
	if !catsVal.Exists() {
		return nil, nil, &CompileError{
			Field:   "categories",
			Message: "categories list is required",
			Pos:     specVal.Pos(),
		}
	}

	iter, err := catsVal.List()
	if err != nil {
		return nil, nil, formatCUEError(err)
	}

	var (
		cats     []rawCategory
		warnings []string
	)
	for iter.Next() {
		cat, err := parseCategory(iter.Value())
		if err != nil {
			return nil, warnings, err
		}
		if len(cat.choices) == 0 {
			warnings = append(warnings, fmt.Sprintf("dropped empty category %q", cat.name))
			continue
		}
		cats = append(cats, cat)
	}

	return cats, warnings, nil
}

func parseCategory(v cue.Value) (rawCategory, error) {
	cat := rawCategory{pos: v.Pos()}

	name, err := requiredString(v, "name")
	if err != nil {
		return cat, err
	}
	cat.name = model.NormalizeName(name)

	choicesVal := v.LookupPath(cue.ParsePath("choices"))
	if !choicesVal.Exists() {
		return cat, nil
	}
	iter, err := choicesVal.List()
	if err != nil {
		return cat, formatCUEError(err)
	}
	for iter.Next() {
		ch, err := parseChoice(iter.Value(), cat.name)
		if err != nil {
			return cat, err
		}
		cat.choices = append(cat.choices, ch)
	}

	return cat, nil
}

func parseChoice(v cue.Value, category string) (rawChoice, error) {
	var ch rawChoice

	name, err := requiredString(v, "name")
	if err != nil {
		return ch, err
	}
	ch.name = model.NormalizeName(name)

	field := func(f string) string {
		return fmt.Sprintf("category %q, choice %q, %s", category, ch.name, f)
	}

	if ch.props, err = optionalStrings(v, "properties"); err != nil {
		return ch, err
	}
	if ch.frame, err = optionalFrame(v, "frame", field("frame")); err != nil {
		return ch, err
	}

	condVal := v.LookupPath(cue.ParsePath("condition"))
	if condVal.Exists() {
		cond, err := condVal.String()
		if err != nil {
			return ch, formatCUEError(err)
		}
		ch.condition = cond
		ch.condPos = condVal.Pos()
	}

	if ch.ifProps, err = optionalStrings(v, "ifProperties"); err != nil {
		return ch, err
	}
	if ch.ifFrame, err = optionalFrame(v, "ifFrame", field("ifFrame")); err != nil {
		return ch, err
	}
	if ch.elseProps, err = optionalStrings(v, "elseProperties"); err != nil {
		return ch, err
	}
	if ch.elseFrame, err = optionalFrame(v, "elseFrame", field("elseFrame")); err != nil {
		return ch, err
	}

	if elseVal := v.LookupPath(cue.ParsePath("hasElse")); elseVal.Exists() {
		b, err := elseVal.Bool()
		if err != nil {
			return ch, formatCUEError(err)
		}
		ch.hasElse = b
	}
	// An else branch is implied by else-side fields.
	if len(ch.elseProps) > 0 || ch.elseFrame != model.FrameNormal {
		ch.hasElse = true
	}

	if ch.condition == "" {
		if ch.hasElse || len(ch.ifProps) > 0 || ch.ifFrame != model.FrameNormal || ch.elseFrame != model.FrameNormal {
			return ch, &CompileError{
				Field:   field("condition"),
				Message: "branch fields require a condition",
				Pos:     v.Pos(),
			}
		}
	}

	return ch, nil
}

// build interns every declared property, then assembles the graph and parses
// condition expressions against the full table.
func build(name string, cats []rawCategory) (*model.Specification, error) {
	table := model.NewTable()
	for _, cat := range cats {
		for _, ch := range cat.choices {
			for _, lists := range [][]string{ch.props, ch.ifProps, ch.elseProps} {
				for _, p := range lists {
					table.Intern(p)
				}
			}
		}
	}

	resolve := func(n string) (*model.Property, error) {
		p, ok := table.Lookup(n)
		if !ok {
			return nil, fmt.Errorf("undefined property %q", n)
		}
		return p, nil
	}

	spec := &model.Specification{Name: name, Properties: table}
	for _, rawCat := range cats {
		cat := &model.Category{Name: rawCat.name}
		for _, raw := range rawCat.choices {
			ch := &model.Choice{
				Name:       raw.name,
				Frame:      raw.frame,
				HasElse:    raw.hasElse,
				Properties: intern(table, raw.props),
			}
			if raw.condition != "" {
				expr, err := parser.ParseExpr(raw.condition, resolve)
				if err != nil {
					return nil, &CompileError{
						Field:   fmt.Sprintf("category %q, choice %q, condition", rawCat.name, raw.name),
						Message: err.Error(),
						Pos:     raw.condPos,
					}
				}
				ch.If = expr
				ch.IfProperties = intern(table, raw.ifProps)
				ch.ElseProperties = intern(table, raw.elseProps)
				ch.IfFrame = raw.ifFrame
				ch.ElseFrame = raw.elseFrame
			}
			cat.Choices = append(cat.Choices, ch)
		}
		spec.Categories = append(spec.Categories, cat)
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("compiled specification: %w", err)
	}

	return spec, nil
}

func intern(table *model.Table, names []string) []*model.Property {
	props := make([]*model.Property, len(names))
	for i, n := range names {
		props[i] = table.Intern(n)
	}
	return props
}

func requiredString(v cue.Value, path string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	if !fieldVal.Exists() {
		return "", &CompileError{
			Field:   path,
			Message: path + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalStrings(v cue.Value, path string) ([]string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	if !fieldVal.Exists() {
		return nil, nil
	}
	iter, err := fieldVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, model.NormalizeName(s))
	}
	return out, nil
}

func optionalFrame(v cue.Value, path, field string) (model.FrameType, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	if !fieldVal.Exists() {
		return model.FrameNormal, nil
	}
	s, err := fieldVal.String()
	if err != nil {
		return model.FrameNormal, formatCUEError(err)
	}
	ft, err := model.ParseFrameType(s)
	if err != nil {
		return model.FrameNormal, &CompileError{
			Field:   field,
			Message: err.Error(),
			Pos:     fieldVal.Pos(),
		}
	}
	return ft, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
