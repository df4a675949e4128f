package schema

const (
	// MetadataKeyFileName is the key for the source file name.
	MetadataKeyFileName = "file_name"
	// MetadataKeyPageLabel is the key for the page number or label from the source document.
	MetadataKeyPageLabel = "page_label"
	// MetadataKeySheetName is the key for the worksheet name of spreadsheet sources.
	MetadataKeySheetName = "sheet_name"
	// MetadataKeySourceID is the key linking a chunk back to the document it was cut from.
	MetadataKeySourceID = "source_id"
	// MetadataKeyChunkOffset is the key for the chunk's character offset within its document.
	MetadataKeyChunkOffset = "chunk_offset"
)

// Document is the central data structure representing a piece of text and
// its associated data. It is the primary carrier through the RAG pipeline:
// loaders produce whole documents, the splitter produces chunk documents,
// and the vector store persists chunk documents with their embeddings.
type Document struct {
	// ID is the unique identifier for this document or chunk.
	ID string

	// Text is the string content.
	Text string

	// Embedding is the vector representation of the text. Empty until the
	// embedding step has run. All embeddings in one index must come from
	// the same backend; mixing backends corrupts the index.
	Embedding []float32

	// Metadata holds string-valued data about the document, such as
	// file_name and page_label. Chunks inherit their document's metadata.
	Metadata map[string]string
}

// CloneMetadata returns a copy of the document's metadata so that chunks
// never share a map with their source document.
func (d *Document) CloneMetadata() map[string]string {
	md := make(map[string]string, len(d.Metadata))
	for k, v := range d.Metadata {
		md[k] = v
	}
	return md
}
