// Package policy decides who may do what. Every service operation resolves the caller into an
// Actor and asks it to Authorize an Action against the Resource being touched.
package policy

import (
	"coursehub/apperr"
	"coursehub/models"
)

// Actor is the authenticated caller with the ids of its role profiles. A zero MentorID or
// StudentID means the profile does not exist.
type Actor struct {
	UserID    uint
	Name      string
	Email     string
	Role      models.Role
	MentorID  uint
	StudentID uint
}

// FromUser builds an actor from a user with its profiles preloaded.
func FromUser(u *models.User) Actor {
	a := Actor{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	if u.Mentor != nil && !u.Mentor.IsDeleted {
		a.MentorID = u.Mentor.ID
	}
	if u.Student != nil && !u.Student.IsDeleted {
		a.StudentID = u.Student.ID
	}
	return a
}

func (a Actor) IsAdmin() bool   { return a.Role == models.RoleAdmin }
func (a Actor) IsMentor() bool  { return a.Role == models.RoleMentor }
func (a Actor) IsStudent() bool { return a.Role == models.RoleStudent }

// Resource identifies whose thing is being touched. Only the fields relevant to an action
// need to be set.
type Resource struct {
	OwnerUserID uint // user owning a profile or payment
	MentorID    uint // mentor owning the course
	StudentID   uint // student holding the enrollment
}

type Action string

const (
	CourseCreate       Action = "course.create"
	CourseManage       Action = "course.manage"
	VideoManage        Action = "video.manage"
	VideoWatch         Action = "video.watch"
	CatalogManage      Action = "catalog.manage"
	ProfileManage      Action = "profile.manage"
	MentorProfileOpen  Action = "mentor_profile.create"
	StudentProfileOpen Action = "student_profile.create"

	EnrollmentCreate      Action = "enrollment.create"
	EnrollmentView        Action = "enrollment.view"
	EnrollmentSetStatus   Action = "enrollment.status"
	EnrollmentProgress    Action = "enrollment.progress"
	EnrollmentDelete      Action = "enrollment.delete"
	EnrollmentListCourse  Action = "enrollment.list_course"
	EnrollmentListStudent Action = "enrollment.list_student"

	PaymentCheckout   Action = "payment.checkout"
	PaymentView       Action = "payment.view"
	PaymentListCourse Action = "payment.list_course"
	PaymentListStatus Action = "payment.list_status"

	BadgeManage Action = "badge.manage"

	StatsView      Action = "stats.view"
	StatsAdminView Action = "stats.admin"
	ArchiveManage  Action = "archive.manage"
)

type rule func(a Actor, r Resource) bool

func admin(a Actor, _ Resource) bool { return a.IsAdmin() }

func courseMentor(a Actor, r Resource) bool {
	return a.IsMentor() && a.MentorID != 0 && a.MentorID == r.MentorID
}

func enrolledStudent(a Actor, r Resource) bool {
	return a.IsStudent() && a.StudentID != 0 && a.StudentID == r.StudentID
}

func owner(a Actor, r Resource) bool {
	return r.OwnerUserID != 0 && a.UserID == r.OwnerUserID
}

func mentorWithProfile(a Actor, _ Resource) bool { return a.IsMentor() && a.MentorID != 0 }
func studentWithProfile(a Actor, _ Resource) bool {
	return a.IsStudent() && a.StudentID != 0
}
func anyMentor(a Actor, _ Resource) bool  { return a.IsMentor() }
func anyStudent(a Actor, _ Resource) bool { return a.IsStudent() }

var rules = map[Action][]rule{
	CourseCreate:       {admin, mentorWithProfile},
	CourseManage:       {admin, courseMentor},
	VideoManage:        {admin, courseMentor},
	VideoWatch:         {admin, courseMentor, enrolledStudent},
	CatalogManage:      {admin},
	ProfileManage:      {admin, owner},
	MentorProfileOpen:  {anyMentor},
	StudentProfileOpen: {anyStudent},

	EnrollmentCreate:      {studentWithProfile},
	EnrollmentView:        {admin, courseMentor, enrolledStudent},
	EnrollmentSetStatus:   {admin, courseMentor},
	EnrollmentProgress:    {admin, enrolledStudent},
	EnrollmentDelete:      {admin, courseMentor, enrolledStudent},
	EnrollmentListCourse:  {admin, courseMentor},
	EnrollmentListStudent: {admin, enrolledStudent},

	PaymentCheckout:   {studentWithProfile},
	PaymentView:       {admin, owner},
	PaymentListCourse: {admin, courseMentor},
	PaymentListStatus: {admin},

	BadgeManage: {admin},

	StatsView:      {admin, mentorWithProfile},
	StatsAdminView: {admin},
	ArchiveManage:  {admin},
}

var denials = map[Action]string{
	CourseCreate:          "You are not authorized to create courses",
	CourseManage:          "Unauthorized to manage this course",
	VideoManage:           "Unauthorized to manage videos of this course",
	VideoWatch:            "You need an approved enrollment to watch this video",
	CatalogManage:         "Only admins can manage the catalog",
	ProfileManage:         "Unauthorized to manage this profile",
	MentorProfileOpen:     "User role must be mentor to create a mentor profile",
	StudentProfileOpen:    "User role must be student to create a student profile",
	EnrollmentCreate:      "Only students with a student profile can enroll in courses",
	EnrollmentView:        "Unauthorized to view this enrollment",
	EnrollmentSetStatus:   "Unauthorized to update enrollment status",
	EnrollmentProgress:    "Unauthorized to update enrollment progress",
	EnrollmentDelete:      "Unauthorized to delete this enrollment",
	EnrollmentListCourse:  "Unauthorized to view enrollments for this course",
	EnrollmentListStudent: "Unauthorized to view enrollments for this student",
	PaymentCheckout:       "Only students with a student profile can purchase courses",
	PaymentView:           "Unauthorized to view this payment",
	PaymentListCourse:     "Unauthorized to view payments for this course",
	PaymentListStatus:     "Unauthorized to view payments by status",
	BadgeManage:           "Only admins can manage badges",
	StatsView:             "Unauthorized to view statistics",
	StatsAdminView:        "Unauthorized to view these statistics",
	ArchiveManage:         "Only admins can manage trashed records",
}

// Can reports whether any rule registered for the action admits the actor.
func (a Actor) Can(action Action, r Resource) bool {
	for _, allow := range rules[action] {
		if allow(a, r) {
			return true
		}
	}
	return false
}

// Authorize returns a Forbidden error when the actor may not perform the action.
func (a Actor) Authorize(action Action, r Resource) error {
	if a.Can(action, r) {
		return nil
	}
	msg, ok := denials[action]
	if !ok {
		msg = "You do not have permission to access this resource!"
	}
	return apperr.Forbidden(msg)
}
