package pool

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"epool/internal/middleware"
	"epool/internal/pkg/pagination"
	"epool/internal/pkg/response"
)

type Handler struct {
	folders        *FolderService
	members        *MemberService
	files          *FileService
	uploadMaxBytes int64
	allowedMimes   map[string]struct{}
}

func NewHandler(
	folders *FolderService,
	members *MemberService,
	files *FileService,
	uploadMaxBytes int64,
	allowedMimeTypes []string,
) *Handler {
	allowed := make(map[string]struct{}, len(allowedMimeTypes))
	for _, m := range allowedMimeTypes {
		allowed[m] = struct{}{}
	}
	return &Handler{
		folders:        folders,
		members:        members,
		files:          files,
		uploadMaxBytes: uploadMaxBytes,
		allowedMimes:   allowed,
	}
}

// RegisterRoutes mounts the pool endpoints. Folder creation takes optional
// auth so anonymous owners can be provisioned; everything else requires a
// bearer token.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	folders := r.Group("/pool-folder")
	{
		folders.POST("", optionalAuth, h.CreateFolder)
		folders.GET("", requireAuth, h.ListFolders)
		folders.GET("/user/owned", requireAuth, h.ListOwnedFolders)
		folders.GET("/user/member", requireAuth, h.ListMemberFolders)
		folders.GET("/generate-link/:id", requireAuth, h.GenerateInviteLink)
		folders.POST("/join/:linkCode", requireAuth, h.JoinViaLink)
		folders.GET("/:id", requireAuth, h.GetFolder)
		folders.PATCH("/:id", requireAuth, h.UpdateFolder)
		folders.DELETE("/:id", requireAuth, h.DeleteFolder)
	}

	members := r.Group("/pool-member", requireAuth)
	{
		members.POST("", h.AddMember)
		members.GET("", h.ListMembers)
		members.GET("/user/memberships", h.ListUserMemberships)
		members.GET("/folder/:poolFolderId", h.ListFolderMembers)
		members.GET("/:id", h.GetMember)
		members.PATCH("/:id", h.UpdateMember)
		members.DELETE("/:id", h.RemoveMember)
	}

	files := r.Group("/pool-file", requireAuth)
	{
		files.POST("/upload/:poolFolderId", h.UploadFile)
		files.GET("", h.ListFiles)
		files.GET("/user/files", h.ListUserFiles)
		files.GET("/:id", h.GetFile)
		files.DELETE("/:id", h.DeleteFile)
	}
}

func (h *Handler) CreateFolder(c *gin.Context) {
	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	actorID := c.GetString(middleware.ContextUserID)
	result, err := h.folders.CreateFolder(c.Request.Context(), actorID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Pool folder created", result)
}

func (h *Handler) GetFolder(c *gin.Context) {
	folder, err := h.folders.GetFolder(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool folder", folder)
}

func (h *Handler) ListFolders(c *gin.Context) {
	q := pagination.FromContext(c)
	folders, total, err := h.folders.GetAllFolders(c.Request.Context(), q.Offset(), q.PerPage)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool folders", pagination.Structure(folders, total, q))
}

func (h *Handler) ListOwnedFolders(c *gin.Context) {
	folders, err := h.folders.GetOwnedFolders(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Owned pool folders", folders)
}

func (h *Handler) ListMemberFolders(c *gin.Context) {
	folders, err := h.folders.GetMemberFolders(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Member pool folders", folders)
}

func (h *Handler) UpdateFolder(c *gin.Context) {
	var req UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folders.UpdateFolder(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool folder updated", folder)
}

func (h *Handler) DeleteFolder(c *gin.Context) {
	if err := h.folders.DeleteFolder(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool folder deleted", nil)
}

func (h *Handler) GenerateInviteLink(c *gin.Context) {
	link, err := h.folders.GenerateInviteLink(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Invite link generated", link)
}

func (h *Handler) JoinViaLink(c *gin.Context) {
	member, err := h.folders.JoinViaLink(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("linkCode"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Joined pool folder", member)
}

func (h *Handler) AddMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	member, err := h.members.AddMember(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Pool member added", member)
}

func (h *Handler) GetMember(c *gin.Context) {
	member, err := h.members.GetMember(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool member", member)
}

func (h *Handler) ListMembers(c *gin.Context) {
	q := pagination.FromContext(c)
	members, total, err := h.members.GetAllMembers(c.Request.Context(), q.Offset(), q.PerPage)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool members", pagination.Structure(members, total, q))
}

func (h *Handler) ListFolderMembers(c *gin.Context) {
	members, err := h.members.GetMembersByFolder(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("poolFolderId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool folder members", members)
}

func (h *Handler) ListUserMemberships(c *gin.Context) {
	members, err := h.members.GetUserMemberships(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User memberships", members)
}

func (h *Handler) UpdateMember(c *gin.Context) {
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	member, err := h.members.UpdateMember(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool member updated", member)
}

func (h *Handler) RemoveMember(c *gin.Context) {
	if err := h.members.RemoveMember(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool member removed", nil)
}

// UploadFile accepts one multipart file under field "file". Size and mime
// checks happen here so oversized or disallowed payloads never reach the
// storage client.
func (h *Handler) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "A file is required under the 'file' field")
		return
	}
	if header.Size > h.uploadMaxBytes {
		response.Error(c, http.StatusBadRequest, fmt.Sprintf("File exceeds the %d byte limit", h.uploadMaxBytes))
		return
	}

	mimetype := header.Header.Get("Content-Type")
	if _, ok := h.allowedMimes[mimetype]; !ok {
		response.Error(c, http.StatusBadRequest, "File type is not allowed")
		return
	}

	src, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.uploadMaxBytes+1))
	if err != nil || int64(len(data)) > h.uploadMaxBytes {
		response.Error(c, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}

	file, err := h.files.UploadFile(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("poolFolderId"), FileUpload{
		Filename: header.Filename,
		Mimetype: mimetype,
		Size:     int64(len(data)),
		Data:     data,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Pool file uploaded", file)
}

func (h *Handler) GetFile(c *gin.Context) {
	file, err := h.files.GetFile(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool file", file)
}

func (h *Handler) ListFiles(c *gin.Context) {
	q := pagination.FromContext(c)
	files, total, err := h.files.GetAllFiles(c.Request.Context(), q.Offset(), q.PerPage)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool files", pagination.Structure(files, total, q))
}

func (h *Handler) ListUserFiles(c *gin.Context) {
	q := pagination.FromContext(c)
	files, total, err := h.files.GetUserFiles(c.Request.Context(), c.GetString(middleware.ContextUserID), q.Offset(), q.PerPage)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User pool files", pagination.Structure(files, total, q))
}

func (h *Handler) DeleteFile(c *gin.Context) {
	if err := h.files.DeleteFile(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pool file deleted", nil)
}
