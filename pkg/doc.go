// Package pkg provides the libraries behind fossrepo, a fallback artifact
// resolver for Maven-layout repositories.
//
// # Overview
//
// A request first goes to a primary store. When that store cannot serve
// it, the request is retried with version LATEST and finally against a
// flat filesystem store (the javadir layout) through a coordinate remap
// table built from mapping fragments.
//
//	Coordinate
//	    ↓
//	[repository] System ── primary ──→ [mavenrepo] Resolver
//	    │          └──── LATEST retry ──→ [mavenrepo] Resolver
//	    └──────────────── secondary ───→ [javadir] Store ← [remap] Table
//
// # Quick Start
//
//	cfg, _ := config.Load("")
//	depmap := remap.NewLazySources(cfg.Sources(), remap.Options{Mode: cfg.Mode()})
//
//	jc := cfg.JavadirConfig()
//	jc.Depmap = depmap
//	store := javadir.New(jc)
//
//	sys, _ := repository.New(mavenrepo.New(mavenrepo.Config{}), repository.Config{
//	    Primary:      cfg.Primary(),
//	    UseSecondary: cfg.UseSecondary,
//	    Secondary:    store,
//	})
//
//	c, _ := artifact.Parse("org.example:lib:1.0")
//	res, err := sys.ResolveArtifact(ctx, repository.NewSession(local), repository.ArtifactRequest{Artifact: c})
//
// # Packages
//
// [artifact] - Coordinates, version ordering and version ranges.
//
// [remap] - Mapping fragments and the immutable remap table.
//
// [javadir] - The secondary filesystem store.
//
// [repository] - The fallback engine, its sessions and results.
//
// [mavenrepo] - A default-layout primary store over file and HTTP roots.
//
// [dag] - Graphs built from collected dependency trees, with DOT and SVG
// output.
//
// [cache], [httputil], [errors], [config], [observability], [buildinfo] -
// Supporting infrastructure.
package pkg
