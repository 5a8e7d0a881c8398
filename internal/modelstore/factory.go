package modelstore

import (
	"context"
	"fmt"
	"os"

	"cosmocore/internal/infra/modelstore/fs"
	"cosmocore/internal/infra/modelstore/memory"
	"cosmocore/internal/infra/modelstore/s3"
)

// Open selects a Store implementation using environment variables.
//
//	COSMOCORE_MODEL_DRIVER: fs|s3|memory (default fs)
//	COSMOCORE_MODEL_FS_ROOT: directory root when driver=fs (default ./modeldata)
//	(S3 specific variables documented in the s3 backend)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("COSMOCORE_MODEL_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return fs.New(os.Getenv("COSMOCORE_MODEL_FS_ROOT"))
	case DriverS3:
		return s3.OpenFromEnv(ctx)
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown model store driver %s", driver)
	}
}
