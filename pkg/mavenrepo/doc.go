// Package mavenrepo is the reference primary store for the resolution
// engine.
//
// A [Resolver] implements repository.Delegate over one Maven
// default-layout repository:
//
//	<group with dots as slashes>/<name>/<version>/<name>-<version>[-<classifier>].<ext>
//	<group with dots as slashes>/<name>/maven-metadata.xml
//
// Roots are reached through a [Transport]: [FileTransport] for "file:"
// URLs (backed by afero) and [HTTPTransport] for "http:" and "https:"
// URLs. Remote metadata and descriptors are cached in a cache.Cache.
//
// Every operation consults the session's local repository first and
// never goes past it when the session is offline. The engine relies on
// this to reach the javadir store: it derives an offline session whose
// local repository is that store and replays the request.
//
// [LocalRepository] is a read-only local repository over a directory such
// as ~/.m2/repository.
package mavenrepo
