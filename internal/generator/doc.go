// Package generator renders per-iteration Docker Compose descriptors.
//
// A Compose template is read once per Generate call and rendered for every
// index in the requested range. Each descriptor gets the iteration's /28
// subnet, the core and base station addresses, per-index container names
// and a per-index packet capture volume:
//
//	g := generator.New(nil)
//	paths, err := g.Generate(ctx, 0, 99, "template.yml", "compose/")
//
// The template must define the srsepc, srsenb and srsue services, the
// corenet network with an ipam config entry, and a volumes list on srsenb.
// A missing parent field is reported as a *FieldError naming its path; a
// template that cannot be read or parsed as a *LoadError.
package generator
