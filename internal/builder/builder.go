// Package builder turns the class tree of an input dump into the flat,
// de-duplicated set of documentation entities.
package builder

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/jsdoc"
	"github.com/g5becks/ahkdoc/internal/link"
	"github.com/g5becks/ahkdoc/internal/model"
	"github.com/g5becks/ahkdoc/internal/textutil"
)

const (
	// ConstructorName is the method name that declares a class constructor.
	ConstructorName = "__New"
	// PrivatePrefix marks members that are not part of the public API.
	PrivatePrefix = "_"
)

var (
	paramTags   = []string{"param", "arg", "argument"}
	returnsTags = []string{"returns", "return"}
	throwsTags  = []string{"throws", "throw", "exception"}
)

// Builder converts decoded documents into a model.Set. A Builder is not safe
// for concurrent use; Build may be called repeatedly.
type Builder struct {
	parser jsdoc.Parser
	links  *link.Resolver
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New returns a Builder that parses comments with parser and resolves links
// with links.
func New(parser jsdoc.Parser, links *link.Resolver, opts ...Option) *Builder {
	b := &Builder{
		parser: parser,
		links:  links,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// BuildJSON decodes data and builds it.
func (b *Builder) BuildJSON(data []byte) (*model.Set, error) {
	docs, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return b.Build(docs)
}

// Build walks every class of docs depth-first in document order. The first
// class with a given name wins; later ones are skipped with their nested
// classes.
func (b *Builder) Build(docs []Document) (*model.Set, error) {
	out := model.NewSetBuilder()

	for _, doc := range docs {
		for i := range doc.Classes {
			path := doc.Key + ".classes[" + strconv.Itoa(i) + "]"
			if err := b.visitClass(&doc.Classes[i], path, out); err != nil {
				return nil, err
			}
		}
	}

	return out.Freeze(), nil
}

func (b *Builder) visitClass(node *ClassNode, path string, out *model.SetBuilder) error {
	if node.Name == "" {
		return missingName("class", path)
	}

	if out.Contains(node.Name) {
		b.logger.Debug("skipping duplicate class", "class", node.Name, "path", path)
		return nil
	}

	class := &model.DocClass{
		Name:       node.Name,
		Extends:    node.Extends,
		Methods:    []model.DocMethod{},
		Properties: []model.DocProperty{},
	}
	out.Add(class)

	if !textutil.IsBlank(node.Comment) {
		block, err := b.parseComment(node.Comment, node.Name)
		if err != nil {
			return err
		}

		class.Description = b.appendSeeAlso(b.links.Resolve(block.Description), block)
	}

	for i := range node.Methods {
		method, keep, err := b.buildMethod(&node.Methods[i], memberPath(node.Name, "methods", i))
		if err != nil {
			return err
		}

		if !keep {
			continue
		}

		if method.Name == ConstructorName {
			if class.Constructor == nil {
				class.Constructor = &method
			}
			continue
		}

		class.Methods = append(class.Methods, method)
	}

	for i := range node.Properties {
		property, keep, err := b.buildProperty(&node.Properties[i], memberPath(node.Name, "properties", i))
		if err != nil {
			return err
		}

		if keep {
			class.Properties = append(class.Properties, property)
		}
	}

	b.logger.Debug("built class",
		"class", class.Name,
		"methods", len(class.Methods),
		"properties", len(class.Properties),
		"constructor", class.Constructor != nil,
	)

	for i := range node.Classes {
		if err := b.visitClass(&node.Classes[i], memberPath(node.Name, "classes", i), out); err != nil {
			return err
		}
	}

	return nil
}

func (b *Builder) buildMethod(node *MemberNode, path string) (model.DocMethod, bool, error) {
	if node.Name == "" {
		return model.DocMethod{}, false, missingName("method", path)
	}

	isConstructor := node.Name == ConstructorName
	method := model.DocMethod{
		Name:       node.Name,
		IsStatic:   node.Static,
		Parameters: buildParameters(node.Params),
		Throws:     []model.DocValue{},
	}
	private := strings.HasPrefix(node.Name, PrivatePrefix)

	if !textutil.IsBlank(node.Comment) {
		block, err := b.parseComment(node.Comment, path)
		if err != nil {
			return model.DocMethod{}, false, err
		}

		method.Description = b.links.Resolve(block.Description)
		private = private || block.Has("private")
		b.applyParamTags(method.Parameters, block)

		if tag, ok := block.First(returnsTags...); ok {
			method.Returns = &model.DocValue{
				Type:        tag.Type,
				Description: b.links.Resolve(tag.Description),
			}
		}

		for _, tag := range block.All(throwsTags...) {
			method.Throws = append(method.Throws, model.DocValue{
				Type:        tag.Type,
				Description: b.links.Resolve(tag.Description),
			})
		}

		method.Description = b.appendSeeAlso(method.Description, block)
	}

	if private && !isConstructor {
		b.logger.Debug("dropping private method", "path", path, "method", node.Name)
		return model.DocMethod{}, false, nil
	}

	return method, true, nil
}

func (b *Builder) buildProperty(node *MemberNode, path string) (model.DocProperty, bool, error) {
	if node.Name == "" {
		return model.DocProperty{}, false, missingName("property", path)
	}

	property := model.DocProperty{
		Name:       node.Name,
		IsStatic:   node.Static,
		Parameters: buildParameters(node.Params),
	}
	private := strings.HasPrefix(node.Name, PrivatePrefix)

	if !textutil.IsBlank(node.Comment) {
		block, err := b.parseComment(node.Comment, path)
		if err != nil {
			return model.DocProperty{}, false, err
		}

		property.Description = b.links.Resolve(block.Description)
		private = private || block.Has("private")
		b.applyParamTags(property.Parameters, block)

		if tag, ok := block.First("type"); ok {
			property.Type = tag.Type
		}

		property.Description = b.appendSeeAlso(property.Description, block)
	}

	if private {
		b.logger.Debug("dropping private property", "path", path, "property", node.Name)
		return model.DocProperty{}, false, nil
	}

	return property, true, nil
}

func buildParameters(nodes []ParamNode) []model.DocParameter {
	params := make([]model.DocParameter, 0, len(nodes))
	for _, node := range nodes {
		param := model.DocParameter{Name: node.Name}
		if node.DefVal.Present() {
			param.IsOptional = true
			param.DefaultValue = string(*node.DefVal)
		}

		params = append(params, param)
	}

	return params
}

// applyParamTags copies type and description of @param tags onto the
// parameters they name. Tags naming no declared parameter are dropped.
func (b *Builder) applyParamTags(params []model.DocParameter, block jsdoc.Block) {
	for _, tag := range block.All(paramTags...) {
		for i := range params {
			if params[i].Name != tag.Name {
				continue
			}

			params[i].Type = tag.Type
			params[i].Description = b.links.Resolve(tag.Description)
			if tag.Optional && tag.Default != "" && !params[i].IsOptional {
				params[i].IsOptional = true
				params[i].DefaultValue = tag.Default
			}

			break
		}
	}
}

func (b *Builder) appendSeeAlso(description string, block jsdoc.Block) string {
	tags := block.All("see")
	if len(tags) == 0 {
		return description
	}

	var sb strings.Builder
	if description != "" {
		sb.WriteString(description)
		sb.WriteString("\n\n")
	}

	sb.WriteString("**See also:**\n")
	for _, tag := range tags {
		sb.WriteString("\n- ")
		sb.WriteString(b.links.ResolveReference(tag.Description))
	}

	return sb.String()
}

func (b *Builder) parseComment(comment string, path string) (jsdoc.Block, error) {
	block, err := jsdoc.ParseTags(b.parser, jsdoc.FormatBlock(comment))
	if err != nil {
		return jsdoc.Block{}, oops.
			Code(errcode.TagParseFailed).
			With("path", path).
			Hint("Fix the documentation comment syntax in the source").
			Wrapf(err, "parsing comment of %s", path)
	}

	return block, nil
}

func memberPath(owner string, kind string, index int) string {
	return owner + "." + kind + "[" + strconv.Itoa(index) + "]"
}

func missingName(kind string, path string) error {
	return oops.
		Code(errcode.InputInvalid).
		With("path", path).
		With("kind", kind).
		Hint("Every class, method and property node needs a name").
		Errorf("%s at %s has no name", kind, path)
}
