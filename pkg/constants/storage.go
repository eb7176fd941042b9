// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package constants

const (
	// KVBucketNameGroups is the name of the KV bucket for game groups.
	KVBucketNameGroups = "catalog-groups"

	// KVBucketNameUsers is the name of the KV bucket for user accounts.
	KVBucketNameUsers = "catalog-users"

	// Lookup key patterns for unique constraints
	// KVLookupGroupNamePrefix is the key pattern for case-insensitive group name lookups
	KVLookupGroupNamePrefix = "lookup/groups/name/%s"

	// GroupLookupKeyPrefix marks keys that are name-lookup entries rather than group records
	GroupLookupKeyPrefix = "lookup/"
)
