package request_models

type GenerateChunkRequest struct {
	ChunkIndex *int `json:"chunk_index" binding:"omitempty,min=0"`
	ChunkSize  int  `json:"chunk_size" binding:"omitempty,min=1,max=3"`
}

type UpdateItineraryRequest struct {
	Instruction string `json:"instruction" binding:"required"`
	StartDay    *int   `json:"start_day" binding:"omitempty,min=1"`
	ChunkSize   *int   `json:"chunk_size" binding:"omitempty,min=1"`
}
