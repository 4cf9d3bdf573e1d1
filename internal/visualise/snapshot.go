package visualise

import "fmt"

// SnapshotName is the file name of the grid for chunk index of metric
func SnapshotName(metric string, index int) string {
	return fmt.Sprintf("%s %d.png", metric, index)
}
