package query

// Context is the bag of engine tuning parameters attached to a query.
//
// No field is validated here. The engine is the only authority on which
// combinations are legal, so values are forwarded exactly as set. Nil fields
// are omitted from the wire.
type Context struct {
	Timeout                       *int64  `json:"timeout,omitempty"`
	Priority                      *int64  `json:"priority,omitempty"`
	Lane                          *string `json:"lane,omitempty"`
	QueryID                       *string `json:"queryId,omitempty"`
	BrokerService                 *string `json:"brokerService,omitempty"`
	UseCache                      *bool   `json:"useCache,omitempty"`
	PopulateCache                 *bool   `json:"populateCache,omitempty"`
	UseResultLevelCache           *bool   `json:"useResultLevelCache,omitempty"`
	PopulateResultLevelCache      *bool   `json:"populateResultLevelCache,omitempty"`
	BySegment                     *bool   `json:"bySegment,omitempty"`
	Finalize                      *bool   `json:"finalize,omitempty"`
	MaxScatterGatherBytes         *int64  `json:"maxScatterGatherBytes,omitempty"`
	MaxQueuedBytes                *int64  `json:"maxQueuedBytes,omitempty"`
	SerializeDateTimeAsLong       *bool   `json:"serializeDateTimeAsLong,omitempty"`
	SerializeDateTimeAsLongInner  *bool   `json:"serializeDateTimeAsLongInner,omitempty"`
	EnableParallelMerge           *bool   `json:"enableParallelMerge,omitempty"`
	ParallelMergeParallelism      *int64  `json:"parallelMergeParallelism,omitempty"`
	ParallelMergeInitialYieldRows *int64  `json:"parallelMergeInitialYieldRows,omitempty"`
	ParallelMergeSmallBatchRows   *int64  `json:"parallelMergeSmallBatchRows,omitempty"`
	UseFilterCNF                  *bool   `json:"useFilterCNF,omitempty"`
	SecondaryPartitionPruning     *bool   `json:"secondaryPartitionPruning,omitempty"`
	EnableJoinLeftTableScanDirect *bool   `json:"enableJoinLeftTableScanDirect,omitempty"`
	Debug                         *bool   `json:"debug,omitempty"`

	// TopN
	MinTopNThreshold *int64 `json:"minTopNThreshold,omitempty"`

	// Timeseries
	SkipEmptyBuckets *bool `json:"skipEmptyBuckets,omitempty"`

	// GroupBy
	GroupByStrategy              *string  `json:"groupByStrategy,omitempty"`
	GroupByIsSingleThreaded      *bool    `json:"groupByIsSingleThreaded,omitempty"`
	BufferGrouperInitialBuckets  *int64   `json:"bufferGrouperInitialBuckets,omitempty"`
	BufferGrouperMaxLoadFactor   *float64 `json:"bufferGrouperMaxLoadFactor,omitempty"`
	ForceHashAggregation         *bool    `json:"forceHashAggregation,omitempty"`
	IntermediateCombineDegree    *int64   `json:"intermediateCombineDegree,omitempty"`
	NumParallelCombineThreads    *int64   `json:"numParallelCombineThreads,omitempty"`
	ApplyLimitPushDownToSegment  *bool    `json:"applyLimitPushDownToSegment,omitempty"`
	SortByDimsFirst              *bool    `json:"sortByDimsFirst,omitempty"`
	ForceLimitPushDown           *bool    `json:"forceLimitPushDown,omitempty"`
	MaxIntermediateRows          *int64   `json:"maxIntermediateRows,omitempty"`
	MaxResults                   *int64   `json:"maxResults,omitempty"`
	UseOffheap                   *bool    `json:"useOffheap,omitempty"`

	// Timeseries and GroupBy
	Vectorize               *bool  `json:"vectorize,omitempty"`
	VectorSize              *int64 `json:"vectorSize,omitempty"`
	VectorizeVirtualColumns *bool  `json:"vectorizeVirtualColumns,omitempty"`
}

// Ptr returns a pointer to v, for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}
