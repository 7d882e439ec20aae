package pduitem

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"

	"github.com/meridianhealth/dicomul/uid"
)

// ApplicationContextItem names the application context negotiated for the
// association. DICOM associations only ever use one value,
// uid.DICOMApplicationContextName, but the item carries it explicitly on
// the wire (PS3.8 9.3.2.1).
type ApplicationContextItem struct {
	Name uid.UID
}

func (v *ApplicationContextItem) ItemType() Type { return TypeApplicationContext }

func (v *ApplicationContextItem) Write(w *dicomio.Writer) error {
	return writeHeaderAndString(w, TypeApplicationContext, string(v.Name))
}

func (v *ApplicationContextItem) String() string {
	return fmt.Sprintf("ApplicationContext{%s}", v.Name)
}

func decodeApplicationContext(r *dicomio.Reader, length uint16) (Item, error) {
	s, err := r.ReadString(uint32(length))
	if err != nil {
		return nil, fmt.Errorf("pduitem: application context: %w", err)
	}
	return &ApplicationContextItem{Name: uid.UID(s)}, nil
}
