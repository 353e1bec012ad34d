package metrics

const (
	namespacePrimary = "primary"

	subsystemIngestion = "ingestion"
	subsystemProposer  = "proposer"
	subsystemStorage   = "storage"
)

const (
	LabelOperation = "operation"
	LabelResource  = "resource"
)

const (
	OperationReportOwnBatch    = "report_own_batch"
	OperationReportOthersBatch = "report_others_batch"
)

const (
	ResourcePayloads = "payloads"
)
