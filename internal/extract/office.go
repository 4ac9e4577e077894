package extract

import (
	"os"

	"code.sajari.com/docconv"
)

// extractDocx extracts text from a modern Word document.
func extractDocx(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	text, _, err := docconv.ConvertDocx(f)
	if err != nil {
		return "", err
	}

	return text, nil
}

// extractPptx concatenates the text of every shape in a modern PowerPoint
// presentation, in slide order then shape order.
func extractPptx(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	text, _, err := docconv.ConvertPptx(f)
	if err != nil {
		return "", err
	}

	return text, nil
}
