package generation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"cvgen/internal/catalog"
	"cvgen/internal/defaults"
	"cvgen/internal/matching"
	"cvgen/internal/metadata"
)

var (
	// Two units, or two generated identifiers of one package, would share a name.
	ErrDuplicateUnit = errors.New("duplicate generated unit")
	// Strict mode: a catalog entry matched no declaration.
	ErrUnmatched = errors.New("catalog entry matched no declaration")
	// Strict mode: two declarations of equal rank matched one catalog overload.
	ErrAmbiguousMatch = errors.New("ambiguous declaration match")
)

// Job pairs a collection with the place its units are generated to.
type Job struct {
	Collection catalog.Collection
	Target     Target
}

type Generator struct {
	Resources fs.FS
	Jobs      []Job
	// Import path of the package the manifest unit is generated into.
	ManifestPath    string
	Strict          bool
	ResolverOptions []defaults.Option
}

// Output is everything one run produced.
type Output struct {
	Units Units
	// Names listed by the manifest unit.
	Manifest []string
	Results  []*matching.Result
	// Sources that could not be read or parsed. Their collections produced no units.
	Diagnostics []error
	// Catalog entries, as collection/entry, that matched no declaration.
	Unmatched []string

	identifiers map[string]string
	paths       map[string]string
}

func NewGenerator(resources fs.FS, jobs []Job, manifestPath string) Generator {
	return Generator{
		Resources:    resources,
		Jobs:         jobs,
		ManifestPath: manifestPath,
	}
}

// Jobs generates every collection into a package under outputModule named after the collection,
// calling the binding package under bindingModule with the collection's name.
func Jobs(collections []catalog.Collection, bindingModule string, outputModule string) []Job {
	jobs := make([]Job, 0, len(collections))
	for _, collection := range collections {
		packageName := strings.TrimPrefix(collection.Name, "opencv_")
		if packageName == "" {
			packageName = collection.Name
		}
		jobs = append(jobs, Job{
			Collection: collection,
			Target: Target{
				BindingPath: path.Join(bindingModule, collection.Name),
				PackagePath: path.Join(outputModule, packageName),
			},
		})
	}

	return jobs
}

// DefaultJobs covers the built-in opencv_core and opencv_imgproc catalogs.
func DefaultJobs(bindingModule string, outputModule string) []Job {
	return Jobs(catalog.Builtin(), bindingModule, outputModule)
}

// GenerateAll runs the whole pipeline: read every source, collect the enum constants of all of them,
// then match and emit collection by collection, and finally emit the manifest.
//
// A source that cannot be read or parsed is skipped and reported in Output.Diagnostics.
// A missing source or a catalog error aborts the run.
func (generator *Generator) GenerateAll() (*Output, error) {
	output := &Output{
		Units:       make(Units),
		identifiers: make(map[string]string),
		paths:       make(map[string]string),
	}

	trees, err := generator.readSources(output)
	if err != nil {
		return nil, err
	}

	symbols := defaults.NewSymbolTable()
	types := defaults.NewSymbolTable()
	bindings := make(map[string]string, len(generator.Jobs))
	refs := make([]PackageRef, 0, len(generator.Jobs))
	for _, job := range generator.Jobs {
		source := job.Collection.Source
		if _, seen := bindings[source]; !seen {
			bindings[source] = job.Target.BindingPath
			if tree := trees[source]; tree != nil {
				added := matching.CollectEnums(tree, symbols)
				classes := matching.CollectTypes(tree, types)
				slog.Debug("generate.symbols", "source", source, "constants", added, "classes", classes)
			}
		}
		refs = append(refs, PackageRef{Collection: job.Collection.Name, Path: job.Target.PackagePath})
	}

	emitter := NewEmitter(defaults.NewResolver(symbols, generator.ResolverOptions...), bindings, types)
	manifest := NewManifest(generator.ManifestPath, refs...)

	for _, job := range generator.Jobs {
		tree := trees[job.Collection.Source]
		if tree == nil {
			continue
		}

		if err := generator.generateCollection(job, tree, emitter, manifest, output); err != nil {
			return nil, err
		}
	}

	if generator.Strict && len(output.Unmatched) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnmatched, strings.Join(output.Unmatched, ", "))
	}

	manifestUnit, err := manifest.Unit()
	if err != nil {
		return nil, err
	}
	if err := output.add(manifestUnit, generator.ManifestPath); err != nil {
		return nil, err
	}
	output.Manifest = manifest.Names()

	slog.Info("generate.done", "units", len(output.Units), "unmatched", len(output.Unmatched), "diagnostics", len(output.Diagnostics))
	return output, nil
}

func (generator *Generator) readSources(output *Output) (map[string]*metadata.Tree, error) {
	trees := make(map[string]*metadata.Tree, len(generator.Jobs))
	for _, job := range generator.Jobs {
		source := job.Collection.Source
		if _, done := trees[source]; done {
			continue
		}

		tree, err := metadata.ReadResource(generator.Resources, source)
		if errors.Is(err, metadata.ErrResourceNotFound) {
			return nil, err
		}
		if err != nil {
			slog.Error("generate.source.skip", "source", source, "err", err)
			output.Diagnostics = append(output.Diagnostics, err)
		}
		trees[source] = tree
	}

	return trees, nil
}

func (generator *Generator) generateCollection(job Job, tree *metadata.Tree, emitter *Emitter, manifest *Manifest, output *Output) error {
	collection := job.Collection
	result := matching.Visit(tree, collection)
	output.Results = append(output.Results, result)

	for _, conflict := range result.Conflicts {
		if generator.Strict && conflict.Ambiguous {
			return fmt.Errorf("%w: %s.%s lines %d and %d", ErrAmbiguousMatch, collection.Name, conflict.Method, conflict.Dropped.Line, conflict.Kept.Line)
		}
	}

	for index, method := range collection.Methods {
		unit, ok, err := emitter.Emit(collection, job.Target, index, result)
		if err != nil {
			return err
		}
		if !ok {
			slog.Warn("generate.unmatched", "collection", collection.Name, "method", method.Name)
			output.Unmatched = append(output.Unmatched, collection.Name+"/"+method.Name)
			continue
		}

		if err := output.add(unit, job.Target.PackagePath); err != nil {
			return err
		}
		manifest.Add(collection.Name, unit.Name, method.Name)
	}

	slog.Info("generate.collection", "collection", collection.Name, "source", tree.Source, "matched", result.Len(), "conflicts", len(result.Conflicts))
	return nil
}

// Registers the unit and every identifier it declares in packagePath.
func (output *Output) add(unit Unit, packagePath string) error {
	if _, found := output.Units[unit.Name]; found {
		return fmt.Errorf("%w: unit %s", ErrDuplicateUnit, unit.Name)
	}
	if other, found := output.paths[unit.Path]; found {
		return fmt.Errorf("%w: units %s and %s both write %s", ErrDuplicateUnit, other, unit.Name, unit.Path)
	}
	for _, identifier := range unit.Identifiers {
		qualified := packagePath + "." + identifier
		if other, found := output.identifiers[qualified]; found {
			return fmt.Errorf("%w: units %s and %s both declare %s", ErrDuplicateUnit, other, unit.Name, qualified)
		}
	}

	for _, identifier := range unit.Identifiers {
		output.identifiers[packagePath+"."+identifier] = unit.Name
	}
	output.paths[unit.Path] = unit.Name
	output.Units[unit.Name] = unit
	return nil
}
