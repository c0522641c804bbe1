package synth

// Shared vertical-extent tunables. caveMaxDepthBelowBasement and
// structureHeadroom size the chunk volume ExtentFor allocates so caves and
// plots both have room to carve/build without clipping.
const (
	caveMaxDepthBelowBasement = caveAvgLevelDepth*3 + 40
	structureHeadroom         = 60
)
