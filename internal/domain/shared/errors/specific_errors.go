package errors

// DatasetDetail names the offending dataset of an InvalidDataset error
type DatasetDetail struct {
	Dataset int `json:"dataset"`
}

// PointDetail names the offending point of an InvalidScatterPoint error
type PointDetail struct {
	Dataset int `json:"dataset"`
	Point   int `json:"point"`
}

// RawBody carries the undecodable response text of a ParseError
type RawBody struct {
	Text string `json:"text"`
}
