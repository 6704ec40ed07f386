// Package remap builds the coordinate remap table ("depmap") that
// translates Maven coordinates into the names used by the javadir store.
//
// # Fragments
//
// Mappings come from fragment files. Each fragment holds a sequence of
// records; a record names one canonical coordinate and at most one
// replacement:
//
//	<dependency>
//	  <maven>
//	    <groupId>org.apache.commons</groupId>
//	    <artifactId>commons-lang3</artifactId>
//	    <version>3.12.0</version>
//	  </maven>
//	  <jpp>
//	    <groupId>JPP</groupId>
//	    <artifactId>commons-lang3</artifactId>
//	  </jpp>
//	</dependency>
//
// XML fragments have no root element. TOML fragments use [[dependency]]
// tables and YAML fragments a top-level "dependency" list, each with the
// same maven/jpp shape.
//
// A record without a replacement maps to the elision target
// JPP/maven:empty-dep. A missing replacement version becomes DUMMY_VER.
// Records with a wrong number of blocks are skipped individually.
//
// # Sources
//
// [Build] applies, in order: the versionless base file, the fragments in
// /etc/maven/fragments and then /usr/share/maven-fragments (each sorted by
// file name), and an optional override file. Later records overwrite
// earlier ones.
//
// # Tables
//
// A [Table] is immutable once built. [Table.Lookup] is the identity for
// unknown coordinates. [Lazy] holds a table that is built once on first
// use and shared by every caller afterwards.
package remap
