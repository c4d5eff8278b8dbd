package format

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
    cases := []struct {
        filename string
        want     Tag
    }{
        {"report.pdf", PDF},
        {"Report.PDF", PDF},
        {"letter.docx", DOCX},
        {"old-letter.doc", DOC},
        {"book.XLSX", XLSX},
        {"ledger.xls", XLS},
        {"data.csv", CSV},
        {"notes.txt", TXT},
        {"scan.png", Image},
        {"scan.JPEG", Image},
        {"photo.tif", Image},
        {"archive.tar.gz", Unsupported},
        {"presentation.pptx", Unsupported},
        {"noextension", Unsupported},
        {"", Unsupported},
        {".hidden", Unsupported},
    }
    for _, tc := range cases {
        assert.Equal(t, tc.want, Classify(tc.filename), "Classify(%q)", tc.filename)
    }
}

func TestClassifyDeterministic(t *testing.T) {
    for i := 0; i < 3; i++ {
        assert.Equal(t, PDF, Classify("same.pdf"))
    }
}

func TestExtension(t *testing.T) {
    assert.Equal(t, "pdf", Extension("Report.PDF"))
    assert.Equal(t, "docx", Extension("a.b.docx"))
    assert.Equal(t, "", Extension("plain"))
}
