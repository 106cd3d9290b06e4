// Package timeline resolves timestamps across independently sampled channels.
//
// Channels are not guaranteed to share exact timestamps, so the Resolver offers
// four ways to pick "the same moment":
//
//   - AtOrLatest: exact match at a given (or the globally newest) timestamp
//   - LatestPerChannel: each channel's own newest row
//   - ByRank: each channel's rank-th most recent row, matched within ApproxTolerance
//   - ByCommon: the offset-th most recent timestamp shared by all channels
//
// Stored timestamps are wall-clock times in a storage zone. The zone is carried
// by a Clock value that is passed to the Resolver explicitly.
package timeline
