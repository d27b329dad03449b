// File: internal/provider/providers.go
package provider

// This file explicitly imports all driver implementation packages.
// The blank identifier (_) ensures that the init() function of each package runs,
// allowing them to register themselves with the central driver registry.
//
// To add a new backend (e.g., Azure), implement the driver in pkg/storage/azure
// ensuring it self-registers in its init() function, and then add the import here.

import (
	_ "hubstore/pkg/storage/aws"
	_ "hubstore/pkg/storage/disk"
	_ "hubstore/pkg/storage/gcp"
	_ "hubstore/pkg/storage/minio"
)
