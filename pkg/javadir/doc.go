// Package javadir reads the flat javadir layout that distributions use to
// ship Java libraries.
//
// Binaries live at <root>/<group>/<name>.<extension> under one of the
// binary roots; descriptors live at <root>/<group>-<name>.pom under one of
// the descriptor roots, with '/' in the group replaced by '.'. Files carry
// no version. Before lookup, coordinates are translated through the depmap
// (see package remap) unless the group already starts with "JPP".
//
// A [Store] is used as the local repository of a derived offline session:
//
//	store := javadir.New(javadir.Config{Depmap: depmap})
//	sys, _ := repository.New(delegate, repository.Config{
//	    UseSecondary: true,
//	    Secondary:    store,
//	})
package javadir
