package generation

import (
	"bytes"
	"fmt"
	"path"
	"sort"

	"cvgen/internal"

	"github.com/dave/jennifer/jen"
)

// ManifestFile is the file stem of the manifest unit inside its package.
const ManifestFile = "manifest"

// PackageRef ties a collection to the package its units are generated into.
type PackageRef struct {
	Collection string
	Path       string
}

type manifestEntry struct {
	unit       string
	collection string
	method     string
}

// Manifest accumulates the emitted units of every collection of a run and renders the unit listing them.
type Manifest struct {
	packagePath string
	packages    map[string]string
	entries     []manifestEntry
}

func NewManifest(packagePath string, refs ...PackageRef) *Manifest {
	packages := make(map[string]string, len(refs))
	for _, ref := range refs {
		packages[ref.Collection] = ref.Path
	}

	return &Manifest{packagePath: packagePath, packages: packages}
}

func (m *Manifest) Add(collection string, unit string, method string) {
	m.entries = append(m.entries, manifestEntry{unit: unit, collection: collection, method: method})
}

// UnitName is the name of the manifest unit.
func (m *Manifest) UnitName() string {
	return path.Base(m.packagePath) + "/" + ManifestFile
}

// Names returns the accumulated unit names, sorted.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.entries))
	for _, entry := range m.sorted() {
		names = append(names, entry.unit)
	}
	return names
}

func (m *Manifest) sorted() []manifestEntry {
	entries := append([]manifestEntry(nil), m.entries...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].unit < entries[j].unit })
	return entries
}

// Unit renders the manifest. An empty manifest still renders, with an empty listing.
func (m *Manifest) Unit() (Unit, error) {
	file := jen.NewFilePathName(m.packagePath, path.Base(m.packagePath))
	file.HeaderComment(GeneratedHeader)
	for _, packagePath := range m.packages {
		file.ImportAlias(packagePath, importAlias(packagePath))
	}

	file.Comment("Operation describes one generated operation.")
	file.Type().Id("Operation").Struct(
		jen.Id("Unit").String(),
		jen.Id("Name").String(),
		jen.Id("Description").String(),
	).Line()

	entries := m.sorted()
	file.Comment("Operations lists every generated operation, ordered by unit name.")
	file.Var().Id("Operations").Op("=").Index().Id("Operation").ValuesFunc(func(g *jen.Group) {
		for _, entry := range entries {
			g.Line().Values(m.fields(entry)...)
		}
		if len(entries) > 0 {
			g.Line()
		}
	})

	var buffer bytes.Buffer
	if err := file.Render(&buffer); err != nil {
		return Unit{}, fmt.Errorf("render manifest: %w", err)
	}

	return Unit{
		Name:    m.UnitName(),
		Path:    path.Join(path.Base(m.packagePath), ManifestFile+".go"),
		Content: buffer.Bytes(),
	}, nil
}

func (m *Manifest) fields(entry manifestEntry) []jen.Code {
	unit := jen.Id("Unit").Op(":").Lit(entry.unit)

	packagePath, found := m.packages[entry.collection]
	if !found {
		return []jen.Code{unit, jen.Id("Name").Op(":").Lit(entry.method)}
	}

	operation := internal.ExportedName(entry.method)
	return []jen.Code{
		unit,
		jen.Id("Name").Op(":").Qual(packagePath, operation+"Name"),
		jen.Id("Description").Op(":").Qual(packagePath, operation+"Description"),
	}
}
