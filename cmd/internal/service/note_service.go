package service

import (
	"context"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"remino/cmd/internal/contract"
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/domain/events"
	"remino/cmd/internal/domain/policy"
	"remino/cmd/internal/infrastructure/aws/storage"
	"remino/cmd/internal/utils"
	"remino/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// Attachments are the optional files uploaded along with a note.
type Attachments struct {
	Image *multipart.FileHeader
	File  *multipart.FileHeader
}

func (a *Attachments) empty() bool {
	return a == nil || (a.Image == nil && a.File == nil)
}

type NoteService struct {
	NoteRepo     NoteRepository
	UserRepo     UserRepository
	CategoryRepo CategoryRepository
	// S3 is nil when attachments are disabled.
	S3       storage.S3Client
	Events   Publisher
	Policy   *policy.SharePolicy
	Validate *validator.Validate
}

func NewNoteService(
	noteRepo NoteRepository,
	userRepo UserRepository,
	categoryRepo CategoryRepository,
	s3 storage.S3Client,
	publisher Publisher,
	validate *validator.Validate,
) *NoteService {
	return &NoteService{
		NoteRepo:     noteRepo,
		UserRepo:     userRepo,
		CategoryRepo: categoryRepo,
		S3:           s3,
		Events:       publisher,
		Policy:       policy.NewSharePolicy(),
		Validate:     validate,
	}
}

func (n *NoteService) ListNotes(actor *entity.User, q entity.ListQuery) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	notes, err := n.NoteRepo.FindVisible(actor.ID, q)
	if err != nil {
		log.Errorf("failed to fetch notes of user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = n.toNoteResponse(note)
	}
	return resp, nil
}

func (n *NoteService) GetNote(actor *entity.User, id int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchNote(id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr := n.Policy.CanRead(note, actor); apierr != nil {
		return nil, apierr
	}
	return n.toNoteResponse(note), nil
}

// CreateNote persists a note owned by actor. Collaborators are resolved before
// anything is written, an unknown email means nothing is created.
func (n *NoteService) CreateNote(ctx context.Context, actor *entity.User, req *contract.NoteRequest, files *Attachments) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	category, apierr := ownedCategory(n.CategoryRepo, actor, req.Category)
	if apierr != nil {
		return nil, apierr
	}

	collaborators, apierr := resolveCollaborators(n.UserRepo, actor, req.SharedWith)
	if apierr != nil {
		return nil, apierr
	}

	if apierr := checkAttachments(n.S3, files); apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	note := &entity.Note{
		UserID:     actor.ID,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.Category,
		IsShared:   len(collaborators) > 0,
		CreatedAt:  now,
		UpdatedAt:  now,
		User:       *actor,
		Category:   category,
		SharedWith: collaborators,
	}

	uploaded, apierr := n.attach(ctx, note, files)
	if apierr != nil {
		return nil, apierr
	}

	if err := n.NoteRepo.Create(note); err != nil {
		n.discard(ctx, uploaded)
		log.Errorf("failed to create note: %v", err)
		return nil, apierror.InternalServerError
	}

	n.publishShared(ctx, actor, note)
	return n.toNoteResponse(note), nil
}

// ReplaceNote is the PUT flavour of UpdateNote, the whole body is required.
func (n *NoteService) ReplaceNote(ctx context.Context, actor *entity.User, id int64, req *contract.NoteRequest, files *Attachments) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}
	return n.UpdateNote(ctx, actor, id, req.ToUpdate(), files)
}

// UpdateNote applies the given changes only once every one of them is known to be
// valid, so a rejected request leaves the stored note untouched.
//
// A nil SharedWith keeps the collaborators, anything else replaces them and an
// empty list unshares the note.
func (n *NoteService) UpdateNote(ctx context.Context, actor *entity.User, id int64, req *contract.UpdateNoteRequest, files *Attachments) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, apierr := n.fetchNote(id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr := n.Policy.CanWrite(note, actor); apierr != nil {
		return nil, apierr
	}

	category, apierr := categoryChange(n.CategoryRepo, actor, req.Category)
	if apierr != nil {
		return nil, apierr
	}

	var collaborators []*entity.User
	if req.SharedWith != nil {
		collaborators, apierr = resolveCollaborators(n.UserRepo, actor, req.SharedWith)
		if apierr != nil {
			return nil, apierr
		}
	}

	if apierr := checkAttachments(n.S3, files); apierr != nil {
		return nil, apierr
	}

	// Nothing can be rejected from here on.
	cs := &changeSet{}
	setValue(cs, req.Title, &note.Title)
	setValue(cs, req.Content, &note.Content)
	if req.Category.Set {
		cs.setCategory(req.Category.Value, &note.CategoryID)
		note.Category = category
	}

	if req.SharedWith != nil {
		cs.setShares(collaborators, &note.SharedWith, &note.IsShared)
	}

	replaced := []string{note.ImageKey, note.FileKey}
	uploaded, apierr := n.attach(ctx, note, files)
	if apierr != nil {
		return nil, apierr
	}

	if len(uploaded) > 0 {
		cs.dirty = true
	}

	if cs.dirty {
		note.UpdatedAt = utils.NowUTC()
		if err := n.NoteRepo.Save(note, cs.replaceShares); err != nil {
			n.discard(ctx, uploaded)
			log.Errorf("failed to update note %d: %v", note.ID, err)
			return nil, apierror.InternalServerError
		}
	}

	// Old objects are only dropped once the note points to the new ones.
	for _, key := range replaced {
		if key != "" && key != note.ImageKey && key != note.FileKey {
			n.discard(ctx, []string{key})
		}
	}

	if cs.replaceShares {
		n.publishShared(ctx, actor, note)
	}
	return n.toNoteResponse(note), nil
}

func (n *NoteService) DeleteNote(ctx context.Context, actor *entity.User, id int64) apierror.ErrorResponse {
	note, apierr := n.fetchNote(id)
	if apierr != nil {
		return apierr
	}

	if apierr := n.Policy.CanWrite(note, actor); apierr != nil {
		return apierr
	}

	for _, key := range []string{note.ImageKey, note.FileKey} {
		if key == "" || n.S3 == nil {
			continue
		}

		if err := n.S3.DeleteFile(ctx, key); err != nil {
			log.Errorf("failed to delete object %s of note %d: %v", key, note.ID, err)
			return apierror.InternalServerError
		}
	}

	if err := n.NoteRepo.Delete(note); err != nil {
		log.Errorf("failed to delete note %d: %v", note.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (n *NoteService) fetchNote(id int64) (*entity.Note, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}
	return note, nil
}

func (n *NoteService) publishShared(ctx context.Context, owner *entity.User, note *entity.Note) {
	if len(note.SharedWith) == 0 {
		return
	}

	n.Events.Publish(ctx, &events.NoteShared{
		SharedPayload: sharedPayload(note.ID, note.Title, owner, note.SharedWith),
	})
}

// attach uploads the given files and points the note to them, returning the keys
// written so far so they can be discarded if the note is not saved.
func (n *NoteService) attach(ctx context.Context, note *entity.Note, files *Attachments) ([]string, apierror.ErrorResponse) {
	if files.empty() {
		return nil, nil
	}

	var uploaded []string
	if files.Image != nil {
		key, apierr := n.upload(ctx, files.Image, storage.PathNoteImages)
		if apierr != nil {
			return nil, apierr
		}
		note.ImageKey = key
		uploaded = append(uploaded, key)
	}

	if files.File != nil {
		key, apierr := n.upload(ctx, files.File, storage.PathNoteFiles)
		if apierr != nil {
			n.discard(ctx, uploaded)
			return nil, apierr
		}
		note.FileKey = key
		uploaded = append(uploaded, key)
	}
	return uploaded, nil
}

// upload stores the file under prefix with a fresh UUID name.
func (n *NoteService) upload(ctx context.Context, fh *multipart.FileHeader, prefix string) (string, apierror.ErrorResponse) {
	data, apierr := readFile(fh)
	if apierr != nil {
		return "", apierr
	}

	key := prefix + uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	if err := n.S3.UploadFile(ctx, data, key); err != nil {
		log.Errorf("failed to upload file: %v", err)
		return "", apierror.InternalServerError
	}
	return key, nil
}

func (n *NoteService) discard(ctx context.Context, keys []string) {
	if n.S3 == nil {
		return
	}

	for _, key := range keys {
		if err := n.S3.DeleteFile(ctx, key); err != nil {
			log.Warnf("failed to discard object %s: %v", key, err)
		}
	}
}

func (n *NoteService) objectURL(key string) *string {
	if key == "" {
		return nil
	}

	if n.S3 == nil {
		return &key
	}

	url := n.S3.URL(key)
	return &url
}

func (n *NoteService) toNoteResponse(note *entity.Note) *contract.NoteResponse {
	return &contract.NoteResponse{
		ID:          note.ID,
		User:        toUserResponse(&note.User),
		Title:       note.Title,
		Content:     note.Content,
		Category:    note.CategoryID,
		Image:       n.objectURL(note.ImageKey),
		File:        n.objectURL(note.FileKey),
		IsShared:    note.IsShared,
		SharedUsers: toUserResponses(note.SharedWith),
		CreatedAt:   utils.FormatEpoch(note.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(note.UpdatedAt),
	}
}

func checkAttachments(s3 storage.S3Client, files *Attachments) apierror.ErrorResponse {
	if files.empty() {
		return nil
	}

	if s3 == nil {
		return apierror.AttachmentsDisabledError
	}

	if files.Image != nil {
		if apierr := checkFile(files.Image, contract.ValidImageTypes); apierr != nil {
			return apierr
		}
	}

	if files.File != nil {
		return checkFile(files.File, contract.ValidFileTypes)
	}
	return nil
}

func checkFile(fh *multipart.FileHeader, valid []string) apierror.ErrorResponse {
	if fh.Size > contract.MaxAttachmentSizeBytes {
		return apierror.NewFileTooLargeError(contract.MaxAttachmentSizeBytes)
	}

	if strings.TrimSpace(fh.Filename) == "" {
		return apierror.MissingFileNameError
	}

	if ext, ok := utils.CheckFileExt(fh.Filename, valid); !ok {
		return apierror.NewInvalidFileExtError(ext)
	}
	return nil
}

func readFile(fh *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fh.Open()
	if err != nil {
		log.Errorf("failed to open file: %v", err)
		return nil, apierror.InternalServerError
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Errorf("failed to read file: %v", err)
		return nil, apierror.InternalServerError
	}
	return data, nil
}
