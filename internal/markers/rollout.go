package markers

import "hash/fnv"

// ShouldInclude decides whether temporal markers are attached to the prompt
// for a video. The decision is a pure function of the video id and the
// configured percentage: the id is hashed into a stable [0,100) bucket, and
// the video is included while the bucket stays below the percentage. The
// same id always lands in the same bucket across runs and processes.
func ShouldInclude(videoID string, enabled bool, percentage float64) bool {
	if !enabled {
		return false
	}
	h := fnv.New32a()
	h.Write([]byte(videoID))
	bucket := (h.Sum32() & 0x7FFFFFFF) % 100
	return float64(bucket) < percentage
}
