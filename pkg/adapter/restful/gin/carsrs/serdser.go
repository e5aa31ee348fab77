package carsrs

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/dealership/pkg/core/model"
)

// rawCarForm matches the multipart form fields of the car creation
// and update requests. The picture file and the uri params are
// extracted separately. A status field may be sent by clients, but it
// is ignored; cars are created as available and an update may not
// change the status of a car.
type rawCarForm struct {
	Make  string  `form:"make"`
	Model string  `form:"model"`
	Year  int     `form:"year"`
	Price float64 `form:"price"`
}

// rawCustomer matches the JSON body of the reserve and sell requests.
type rawCustomer struct {
	FullName    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
}

// carFormReq is the deserialized form of a create or update request.
type carFormReq struct {
	Details model.CarDetails
	Picture *model.Attachment
}

// DserStatus deserializes the status uri param. Invalid status
// strings are rejected with a bad request error, keeping the set of
// acceptable filters equal to the closed set of car states.
func (rs *resource) DserStatus(c *gin.Context) (model.CarStatus, bool) {
	status, err := model.ParseCarStatus(c.Param("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Invalid status provided",
		})
		return model.CarStatusInvalid, false
	}
	return status, true
}

// DserID deserializes the id uri param as a UUID.
func (rs *resource) DserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Path param id is not UUID.",
		})
		return uuid.Nil, false
	}
	return id, true
}

// DserCarForm deserializes the multipart body of a create or update
// request. Only well-formedness is checked here (e.g., the year field
// must be an integer); the business constraints are checked by the
// use case before anything may be persisted, so their violations are
// reported as field-scoped errors uniformly.
// A nil return value indicates that an error response was written.
func (rs *resource) DserCarForm(c *gin.Context) *carFormReq {
	req := &rawCarForm{}
	if ok := serdser.Bind(c, req, binding.FormMultipart); !ok {
		return nil
	}
	picture, ok := rs.dserPicture(c)
	if !ok {
		return nil
	}
	return &carFormReq{
		Details: model.CarDetails{
			Make:  req.Make,
			Model: req.Model,
			Year:  req.Year,
			Price: req.Price,
		},
		Picture: picture,
	}
}

// dserPicture extracts the optional picture file of a multipart
// request. A missing file part is not an error at this layer; the
// use case decides if the picture is mandatory (creation) or may be
// omitted to keep the stored one (update).
func (rs *resource) dserPicture(c *gin.Context) (*model.Attachment, bool) {
	fh, err := c.FormFile("picture")
	switch {
	case errors.Is(err, http.ErrMissingFile),
		errors.Is(err, http.ErrNotMultipart):
		return nil, true
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Error uploading file",
		})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Error uploading file",
		})
		return nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(
		f, rs.cars.MaxPictureBytes()+1,
	))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Error reading file",
		})
		return nil, false
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &model.Attachment{
		Name:        fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, true
}

// DserCustomer deserializes the JSON body of a reserve or sell
// request. Field constraints are checked by the use case.
func (rs *resource) DserCustomer(c *gin.Context) (model.Customer, bool) {
	req := &rawCustomer{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return model.Customer{}, false
	}
	return model.Customer{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}, true
}
