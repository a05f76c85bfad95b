package storage

import (
	_ "embed"
)

//go:embed schema.sql
var initSchemaSQL string

const (
	insertMissionSQL = `
INSERT INTO missions (id,
                      name,
                      started_at)
VALUES (?, ?, ?)`

	selectMissionSQL = `
SELECT id,
       name,
       started_at
FROM missions
WHERE id = ?`

	selectMissionsSQL = `
SELECT id,
       name,
       started_at
FROM missions
ORDER BY started_at, id`

	insertSnapshotSQL = `
INSERT INTO snapshots (mission_id,
                       sol,
                       mean_k,
                       median_k,
                       min_k,
                       max_k,
                       sample_count,
                       distance_value,
                       distance_unit,
                       direction,
                       classification)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectSnapshotColumns = `
SELECT sol,
       mean_k,
       median_k,
       min_k,
       max_k,
       sample_count,
       distance_value,
       distance_unit,
       direction,
       classification
FROM snapshots`

	selectSnapshotSQL = selectSnapshotColumns + `
WHERE mission_id = ?
  AND sol = ?`

	selectSnapshotsSQL = selectSnapshotColumns + `
WHERE mission_id = ?
ORDER BY sol`
)
