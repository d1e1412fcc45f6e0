// Package gen turns loaded types into generated units.
//
// # Architecture
//
// The pipeline follows this flow:
//
//	load.Type (package loader)
//	        ↓
//	   Type + Members (closed member variants: Field, Accessor, Element)
//	        ↓
//	   Capability.Collect (Selector, rank ordering, display names)
//	        ↓
//	   Processor (Intro, Body per member, Outro)
//	        ↓
//	   Sink (FileSink with cache, or MemorySink)
//
// # Capabilities
//
// A Capability generates one kind of unit. The compare and stringer
// subpackages provide the two built-in ones:
//
//   - compare: CompareT(first, second *T) int, ordered by rank
//   - stringer: FormatT(object *T) string, "T(a=1, b=2)"
//
// Both select members through a Selector, which applies the same rules in
// the same order for every capability and reports usage errors as
// diagnostics. A unit is generated even when errors were reported, and
// always covers the members accepted.
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithWorkers(4),
//	    gen.WithCapabilities("stringer"),
//	    gen.WithCache(".derive/cache"),
//	)
//	g := gen.NewGenerator(cfg, compare.New(), stringer.New())
//	report, err := g.Generate(ctx, types, nil)
//
// # Error Handling
//
// Problems with the annotated types are diagnostics in the report, never
// errors. A unit that cannot be written is reported the same way, with the
// GenerationError message. Errors returned by NewConfig and Generate are
// reserved for the run itself:
//
//   - ConfigError: invalid option values
//   - cache failures
//   - context errors when ctx is canceled
package gen
