/*
Package migration provides lazy schema versioning for persisted models
and handled messages.

Every versioned entity carries a Metadata field with the schema version it
was serialized with. Buckets wrapped with NewModelBucket and registries
wrapped with SchemaMigratingRegistry upgrade entities on access to the
current schema version of their package, as declared in the schema bucket.
*/
package migration
