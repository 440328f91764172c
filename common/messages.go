package common

// User-facing messages. The site is Arabic first.
const (
	MsgUnauthorized       = "غير مصرح"
	MsgInvalidData        = "بيانات غير صحيحة"
	MsgInternal           = "حدث خطأ غير متوقع"
	MsgLoginRequired      = "يرجى إدخال اسم المستخدم وكلمة المرور"
	MsgLoginFailed        = "بيانات الدخول غير صحيحة"
	MsgLoggedOut          = "تم تسجيل الخروج"
	MsgTooManyAttempts    = "محاولات كثيرة، يرجى المحاولة لاحقاً"
	MsgSlugTaken          = "الرابط المختصر مستخدم بالفعل"
	MsgInvalidID          = "معرف غير صالح"
	MsgServiceNotFound    = "الخدمة غير موجودة"
	MsgArticleNotFound    = "المقال غير موجود"
	MsgWorkItemNotFound   = "العمل غير موجود"
	MsgSolutionNotFound   = "الحل غير موجود"
	MsgMessageNotFound    = "الرسالة غير موجودة"
	MsgFieldRequired      = "هذا الحقل مطلوب"
	MsgFieldTooShort      = "القيمة قصيرة جداً"
	MsgFieldInvalidEmail  = "البريد الإلكتروني غير صالح"
	MsgFieldInvalidChoice = "القيمة غير مسموح بها"
	MsgFieldInvalid       = "القيمة غير صالحة"
	MsgFieldUnknown       = "حقل غير مسموح بتعديله"
)
